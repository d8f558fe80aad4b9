package bot

type EventKind int

const (
	EventText EventKind = iota
	EventMedia
	EventLocation
	EventAction
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// StagedMedia is a locally staged file handed over by the transport.
type StagedMedia struct {
	Path string
	Kind MediaKind
	Size int64
}

type Location struct {
	Lat float64
	Lon float64
}

// Event is the single inbound variant type dispatched by current
// state. Exactly one of Text/Media/Location/Action is meaningful,
// selected by Kind.
type Event struct {
	Kind     EventKind
	Text     string
	Media    *StagedMedia
	Location *Location
	Action   string
}

func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

func MediaEvent(media StagedMedia) Event {
	return Event{Kind: EventMedia, Media: &media}
}

func LocationEvent(lat, lon float64) Event {
	return Event{Kind: EventLocation, Location: &Location{Lat: lat, Lon: lon}}
}

func ActionEvent(action string) Event {
	return Event{Kind: EventAction, Action: action}
}

const (
	ActionStart       = "start"
	ActionRestart     = "restart"
	ActionCancel      = "cancel"
	ActionFinishMedia = "finish_media"
	ActionYes         = "yes"
	ActionNo          = "no"
)

type Button struct {
	Label  string
	Action string
}

// Reply is an outbound instruction for the transport. ChatID zero
// means "answer the submitting user".
type Reply struct {
	ChatID   int64
	Text     string
	Keyboard [][]Button
}
