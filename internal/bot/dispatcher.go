package bot

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/pupkingeorgij/proofbot/internal/metrics"
	"github.com/pupkingeorgij/proofbot/internal/storage"
)

type Store interface {
	ApplyCompletedOrder(ctx context.Context, co storage.CompletedOrder) error
}

type Disk interface {
	FolderExists(ctx context.Context, orderNumber string) bool
	Upload(ctx context.Context, orderNumber, localPath, remoteName string) bool
}

type Geocoder interface {
	Resolve(ctx context.Context, lat, lon float64) string
}

// Broadcaster publishes a finalized report to the company group. The
// photo path may be empty when no image survived staging.
type Broadcaster interface {
	PublishReport(ctx context.Context, chatID int64, caption, photoPath string) error
}

type User struct {
	ID          int64
	ChatID      int64
	DisplayName string
}

type Config struct {
	MaxUploadSize   int64
	GroupChatID     int64
	CollectLocation bool
	CollectDistance bool
}

// Dispatcher owns every in-progress submission, keyed by user ID. The
// transport delivers events for one user serially; the mutex guards
// only cross-user map access.
type Dispatcher struct {
	cfg         Config
	store       Store
	disk        Disk
	geocoder    Geocoder
	broadcaster Broadcaster

	mu          sync.Mutex
	submissions map[int64]*Submission
}

func NewDispatcher(cfg Config, store Store, disk Disk, geocoder Geocoder, broadcaster Broadcaster) *Dispatcher {
	return &Dispatcher{
		cfg:         cfg,
		store:       store,
		disk:        disk,
		geocoder:    geocoder,
		broadcaster: broadcaster,
		submissions: make(map[int64]*Submission),
	}
}

var orderNumberRe = regexp.MustCompile(`^\d+$`)

// HandleEvent drives the state machine for one user. Events that do
// not match the current state are silently ignored: a stale button
// press is not an error.
func (d *Dispatcher) HandleEvent(ctx context.Context, user User, ev Event) []Reply {
	if ev.Kind == EventAction {
		switch ev.Action {
		case ActionStart, ActionRestart:
			return d.startSubmission(user)
		case ActionCancel:
			return d.cancelSubmission(user, ev)
		}
	}

	sub := d.submission(user.ID)
	if sub == nil {
		d.discardStaged(ev)
		zap.S().Debugf("user %d: event ignored, no active submission", user.ID)
		return nil
	}

	switch sub.State {
	case StateMedia:
		return d.handleMediaState(user, sub, ev)
	case StateOrderNumber:
		return d.handleOrderNumberState(ctx, user, sub, ev)
	case StateGeolocation:
		return d.handleGeolocationState(ctx, user, sub, ev)
	case StateConfirm:
		return d.handleConfirmState(user, sub, ev)
	case StateDistance:
		return d.handleDistanceState(user, sub, ev)
	case StateComment:
		return d.handleCommentState(ctx, user, sub, ev)
	}

	d.discardStaged(ev)
	return nil
}

func (d *Dispatcher) submission(userID int64) *Submission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submissions[userID]
}

func (d *Dispatcher) startSubmission(user User) []Reply {
	d.mu.Lock()
	old, had := d.submissions[user.ID]
	sub := &Submission{State: StateMedia}
	d.submissions[user.ID] = sub
	d.mu.Unlock()

	if had {
		d.cleanupStaged(old)
	} else {
		metrics.ActiveSubmissions.Inc()
	}
	metrics.SubmissionsStartedTotal.Inc()
	zap.S().Infof("user %d: submission started", user.ID)

	return []Reply{{
		Text: "Привет! Пожалуйста, загрузите фото или видео с выполнения заказа. " +
			"Можно загрузить несколько файлов. Нажмите «Завершить загрузку», когда закончите.",
		Keyboard: [][]Button{
			{{Label: "Завершить загрузку", Action: ActionFinishMedia}},
			{{Label: "Отменить", Action: ActionCancel}},
		},
	}}
}

func (d *Dispatcher) cancelSubmission(user User, ev Event) []Reply {
	d.discardStaged(ev)

	d.mu.Lock()
	sub, had := d.submissions[user.ID]
	delete(d.submissions, user.ID)
	d.mu.Unlock()

	if !had {
		return nil
	}

	d.cleanupStaged(sub)
	metrics.SubmissionsCancelledTotal.Inc()
	metrics.ActiveSubmissions.Dec()
	zap.S().Infof("user %d: submission cancelled in state %s", user.ID, sub.State)

	return []Reply{{Text: "Действие отменено. Введите /start, чтобы начать заново."}}
}

func (d *Dispatcher) handleMediaState(user User, sub *Submission, ev Event) []Reply {
	switch ev.Kind {
	case EventMedia:
		media := *ev.Media
		if media.Kind != MediaImage && media.Kind != MediaVideo {
			d.discardStaged(ev)
			return []Reply{{Text: "Поддерживаются только фото и видео."}}
		}
		if d.cfg.MaxUploadSize > 0 && media.Size > d.cfg.MaxUploadSize {
			d.discardStaged(ev)
			zap.S().Debugf("user %d: media rejected, %d bytes over limit", user.ID, media.Size)
			return []Reply{{Text: "Файл слишком большой. Пожалуйста, загрузите файл меньшего размера."}}
		}
		// An empty path means the transport failed to stage the file.
		if media.Path == "" {
			zap.S().Warnf("user %d: media event without a staged file", user.ID)
			return []Reply{{Text: "Не удалось получить файл. Пожалуйста, отправьте его ещё раз."}}
		}

		sub.Media = append(sub.Media, media)
		zap.S().Debugf("user %d: media staged at %s (%d files total)", user.ID, media.Path, len(sub.Media))
		return []Reply{{Text: "Медиа добавлено. Можно загрузить ещё файл или нажать «Завершить загрузку»."}}

	case EventAction:
		if ev.Action != ActionFinishMedia {
			return nil
		}
		if len(sub.Media) == 0 {
			return []Reply{{Text: "Вы не загрузили ни одного файла. Пожалуйста, загрузите хотя бы одно фото или видео."}}
		}
		sub.State = StateOrderNumber
		return []Reply{{Text: "Введите номер заказа (только цифры, без пробелов):"}}
	}

	return nil
}

func (d *Dispatcher) handleOrderNumberState(ctx context.Context, user User, sub *Submission, ev Event) []Reply {
	if ev.Kind != EventText {
		d.discardStaged(ev)
		return nil
	}

	if !orderNumberRe.MatchString(ev.Text) {
		return []Reply{{Text: "Номер заказа должен состоять только из цифр. Введите номер заказа ещё раз:"}}
	}

	if !d.disk.FolderExists(ctx, ev.Text) {
		zap.S().Infof("user %d: folder for order %s not found", user.ID, ev.Text)
		return []Reply{{Text: "Папка для указанного заказа не найдена на Яндекс.Диске. Пожалуйста, введите корректный номер заказа."}}
	}

	sub.OrderNumber = ev.Text

	if d.cfg.CollectLocation {
		sub.State = StateGeolocation
		return []Reply{{Text: "Отправьте геолокацию места выполнения заказа:"}}
	}

	sub.State = StateConfirm
	return []Reply{confirmPrompt()}
}

func (d *Dispatcher) handleGeolocationState(ctx context.Context, user User, sub *Submission, ev Event) []Reply {
	if ev.Kind != EventLocation {
		d.discardStaged(ev)
		return nil
	}

	loc := *ev.Location
	sub.Location = &loc
	sub.Address = d.geocoder.Resolve(ctx, loc.Lat, loc.Lon)
	sub.State = StateConfirm

	zap.S().Debugf("user %d: location (%f, %f) resolved to %q", user.ID, loc.Lat, loc.Lon, sub.Address)

	return []Reply{
		{Text: "📍 Адрес: " + sub.Address},
		confirmPrompt(),
	}
}

func (d *Dispatcher) handleConfirmState(user User, sub *Submission, ev Event) []Reply {
	if ev.Kind != EventAction || (ev.Action != ActionYes && ev.Action != ActionNo) {
		d.discardStaged(ev)
		return nil
	}

	sub.Success = ev.Action == ActionYes

	if d.cfg.CollectDistance {
		sub.State = StateDistance
		return []Reply{{Text: "Введите расстояние до центра города в километрах (число с десятичной точкой):"}}
	}

	sub.State = StateComment
	return []Reply{commentPrompt()}
}

func (d *Dispatcher) handleDistanceState(user User, sub *Submission, ev Event) []Reply {
	if ev.Kind != EventText {
		d.discardStaged(ev)
		return nil
	}

	distance, err := strconv.ParseFloat(ev.Text, 64)
	if err != nil {
		return []Reply{{Text: "Пожалуйста, введите корректное число для расстояния."}}
	}

	// Guards against a transposed order number typed into the
	// distance field.
	if orderValue, convErr := strconv.ParseFloat(sub.OrderNumber, 64); convErr == nil && distance == orderValue {
		return []Reply{{Text: "Это не расстояние, а номер заказа. Пожалуйста, введите расстояние в километрах."}}
	}

	sub.Distance = distance
	sub.HasDistance = true
	sub.State = StateComment
	return []Reply{commentPrompt()}
}

func (d *Dispatcher) handleCommentState(ctx context.Context, user User, sub *Submission, ev Event) []Reply {
	if ev.Kind != EventText {
		d.discardStaged(ev)
		return nil
	}

	sub.Comment = ev.Text
	if sub.Comment == "-" {
		sub.Comment = NoComment
	}
	sub.State = StateFinished

	replies := d.finalize(ctx, user, sub)

	d.mu.Lock()
	delete(d.submissions, user.ID)
	d.mu.Unlock()
	metrics.ActiveSubmissions.Dec()

	return replies
}

// finalize runs exactly once per submission: upload every staged file,
// persist the completed order, publish the report and clean up the
// staged copies. No step aborts the ones after it.
func (d *Dispatcher) finalize(ctx context.Context, user User, sub *Submission) []Reply {
	defer d.cleanupStaged(sub)

	var replies []Reply

	for i, media := range sub.Media {
		remoteName := filepath.Base(media.Path)
		if d.disk.Upload(ctx, sub.OrderNumber, media.Path, remoteName) {
			replies = append(replies, Reply{Text: "Файл " + strconv.Itoa(i+1) + " успешно загружен на Яндекс.Диск."})
		} else {
			metrics.UploadsFailedTotal.Inc()
			zap.S().Warnf("user %d: upload of file %d (%s) for order %s failed", user.ID, i+1, media.Path, sub.OrderNumber)
			replies = append(replies, Reply{Text: "Ошибка при загрузке файла " + strconv.Itoa(i+1) + " на Яндекс.Диск."})
		}
	}

	if err := d.store.ApplyCompletedOrder(ctx, storage.CompletedOrder{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		OrderNumber: sub.OrderNumber,
		Success:     sub.Success,
		Comment:     sub.Comment,
		Address:     sub.Address,
	}); err != nil {
		zap.S().Errorf("user %d: failed to persist completed order %s: %v", user.ID, sub.OrderNumber, err)
		replies = append(replies, Reply{Text: "Не удалось сохранить отчёт в базе данных."})
	}

	report := Report{
		OrderNumber: sub.OrderNumber,
		Success:     sub.Success,
		Comment:     sub.Comment,
		Address:     sub.Address,
	}
	if sub.Location != nil {
		report.MapLink = mapLink(sub.Location.Lat, sub.Location.Lon)
	}
	if sub.HasDistance {
		distance := sub.Distance
		report.Distance = &distance
	}

	closing := "Отчёт отправлен! Хотите загрузить новый заказ?"
	if err := d.broadcaster.PublishReport(ctx, d.cfg.GroupChatID, FormatReport(report), d.firstImage(sub)); err != nil {
		zap.S().Errorf("user %d: failed to publish report for order %s: %v", user.ID, sub.OrderNumber, err)
		replies = append(replies, Reply{Text: "Не удалось отправить отчёт в группу: " + err.Error()})
		closing = "Заявка обработана. Хотите загрузить новый заказ?"
	} else {
		metrics.ReportsPublishedTotal.Inc()
	}

	metrics.SubmissionsCompletedTotal.Inc()
	zap.S().Infof("user %d: submission for order %s finalized", user.ID, sub.OrderNumber)

	replies = append(replies, Reply{
		Text:     closing,
		Keyboard: [][]Button{{{Label: "Начать новый заказ", Action: ActionRestart}}},
	})
	return replies
}

func (d *Dispatcher) firstImage(sub *Submission) string {
	for _, media := range sub.Media {
		if media.Kind == MediaImage {
			return media.Path
		}
	}
	return ""
}

// cleanupStaged removes every staged local copy, even when uploads
// failed, so the staging directory cannot grow without bound.
func (d *Dispatcher) cleanupStaged(sub *Submission) {
	for _, media := range sub.Media {
		if err := os.Remove(media.Path); err != nil && !os.IsNotExist(err) {
			zap.S().Warnf("failed to remove staged file %s: %v", media.Path, err)
		}
	}
	sub.Media = nil
}

// discardStaged drops a staged file carried by an event that the state
// machine is about to ignore or reject.
func (d *Dispatcher) discardStaged(ev Event) {
	if ev.Kind != EventMedia || ev.Media == nil || ev.Media.Path == "" {
		return
	}
	if err := os.Remove(ev.Media.Path); err != nil && !os.IsNotExist(err) {
		zap.S().Warnf("failed to remove rejected staged file %s: %v", ev.Media.Path, err)
	}
}

func confirmPrompt() Reply {
	return Reply{
		Text: "Всё ли прошло хорошо?",
		Keyboard: [][]Button{{
			{Label: "Да", Action: ActionYes},
			{Label: "Нет", Action: ActionNo},
		}},
	}
}

func commentPrompt() Reply {
	return Reply{Text: "Оставьте комментарий (если комментария нет, поставьте прочерк «-»):"}
}

func mapLink(lat, lon float64) string {
	return "https://yandex.ru/maps/?pt=" + strconv.FormatFloat(lon, 'f', 6, 64) +
		"," + strconv.FormatFloat(lat, 'f', 6, 64) + "&z=16&l=map"
}
