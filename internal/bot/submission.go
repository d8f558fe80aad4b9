package bot

type State int

const (
	StateMedia State = iota
	StateOrderNumber
	StateGeolocation
	StateConfirm
	StateDistance
	StateComment
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateMedia:
		return "MEDIA"
	case StateOrderNumber:
		return "ORDER_NUMBER"
	case StateGeolocation:
		return "GEOLOCATION"
	case StateConfirm:
		return "CONFIRM"
	case StateDistance:
		return "DISTANCE"
	case StateComment:
		return "COMMENT"
	case StateFinished:
		return "FINISHED"
	}
	return "UNKNOWN"
}

// Submission is one user's in-progress workflow instance. It lives in
// memory only and is destroyed on completion, cancellation or restart.
type Submission struct {
	State       State
	Media       []StagedMedia
	OrderNumber string
	Success     bool
	Location    *Location
	Address     string
	Distance    float64
	HasDistance bool
	Comment     string
}
