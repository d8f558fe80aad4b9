package bot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pupkingeorgij/proofbot/internal/storage"
)

type fakeStore struct {
	applied []storage.CompletedOrder
	err     error
}

func (f *fakeStore) ApplyCompletedOrder(_ context.Context, co storage.CompletedOrder) error {
	f.applied = append(f.applied, co)
	return f.err
}

type fakeDisk struct {
	folders     map[string]bool
	uploadCalls int
	uploaded    []string
	failOnCall  map[int]bool
}

func (f *fakeDisk) FolderExists(_ context.Context, orderNumber string) bool {
	return f.folders[orderNumber]
}

func (f *fakeDisk) Upload(_ context.Context, _, _, remoteName string) bool {
	f.uploadCalls++
	f.uploaded = append(f.uploaded, remoteName)
	return !f.failOnCall[f.uploadCalls]
}

type fakeGeocoder struct {
	address string
}

func (f *fakeGeocoder) Resolve(_ context.Context, _, _ float64) string {
	return f.address
}

type published struct {
	chatID    int64
	caption   string
	photoPath string
}

type fakeBroadcaster struct {
	reports []published
	err     error
}

func (f *fakeBroadcaster) PublishReport(_ context.Context, chatID int64, caption, photoPath string) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, published{chatID: chatID, caption: caption, photoPath: photoPath})
	return nil
}

type testEnv struct {
	dispatcher  *Dispatcher
	store       *fakeStore
	disk        *fakeDisk
	geocoder    *fakeGeocoder
	broadcaster *fakeBroadcaster
}

func newTestEnv(cfg Config) *testEnv {
	env := &testEnv{
		store:       &fakeStore{},
		disk:        &fakeDisk{folders: map[string]bool{}, failOnCall: map[int]bool{}},
		geocoder:    &fakeGeocoder{address: "Самара, улица Ленина, 1"},
		broadcaster: &fakeBroadcaster{},
	}
	env.dispatcher = NewDispatcher(cfg, env.store, env.disk, env.geocoder, env.broadcaster)
	return env
}

func defaultConfig() Config {
	return Config{
		MaxUploadSize:   50 * 1024 * 1024,
		GroupChatID:     -100123,
		CollectLocation: true,
	}
}

func stageFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))
	return path
}

func testUser() User {
	return User{ID: 42, ChatID: 42, DisplayName: "Test Worker"}
}

func (e *testEnv) state(t *testing.T, userID int64) State {
	t.Helper()
	sub := e.dispatcher.submission(userID)
	require.NotNil(t, sub)
	return sub.State
}

func TestDispatcher_IgnoresEventsWithoutSubmission(t *testing.T) {
	env := newTestEnv(defaultConfig())
	ctx := context.Background()

	assert.Nil(t, env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("1234")))
	assert.Nil(t, env.dispatcher.HandleEvent(ctx, testUser(), LocationEvent(53.2, 50.18)))
	assert.Nil(t, env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionYes)))
}

func TestDispatcher_MediaState(t *testing.T) {
	ctx := context.Background()

	t.Run("start offers keyboard and creates submission", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		replies := env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))
		require.Len(t, replies, 1)
		assert.NotEmpty(t, replies[0].Keyboard)
		assert.Equal(t, StateMedia, env.state(t, 42))
	})

	t.Run("finish with no media re-prompts and keeps state", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))

		replies := env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionFinishMedia))
		require.Len(t, replies, 1)
		assert.Contains(t, replies[0].Text, "хотя бы одно")
		assert.Equal(t, StateMedia, env.state(t, 42))
	})

	t.Run("staged media accumulates and finish advances", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))

		env.dispatcher.HandleEvent(ctx, testUser(), MediaEvent(StagedMedia{Path: stageFile(t, "a.jpg"), Kind: MediaImage, Size: 100}))
		env.dispatcher.HandleEvent(ctx, testUser(), MediaEvent(StagedMedia{Path: stageFile(t, "b.mp4"), Kind: MediaVideo, Size: 100}))
		assert.Len(t, env.dispatcher.submission(42).Media, 2)

		env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionFinishMedia))
		assert.Equal(t, StateOrderNumber, env.state(t, 42))
	})

	t.Run("oversized file rejected and staged copy removed", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))

		path := stageFile(t, "big.jpg")
		replies := env.dispatcher.HandleEvent(ctx, testUser(), MediaEvent(StagedMedia{Path: path, Kind: MediaImage, Size: 51 * 1024 * 1024}))
		require.Len(t, replies, 1)
		assert.Contains(t, replies[0].Text, "слишком большой")
		assert.Empty(t, env.dispatcher.submission(42).Media)
		assert.NoFileExists(t, path)
	})

	t.Run("failed staging re-prompts without a phantom file", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))

		replies := env.dispatcher.HandleEvent(ctx, testUser(), MediaEvent(StagedMedia{Kind: MediaImage, Size: 100}))
		require.Len(t, replies, 1)
		assert.Contains(t, replies[0].Text, "Не удалось получить файл")
		assert.Empty(t, env.dispatcher.submission(42).Media)

		// The failed file cannot satisfy the at-least-one requirement.
		replies = env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionFinishMedia))
		require.Len(t, replies, 1)
		assert.Contains(t, replies[0].Text, "хотя бы одно")
		assert.Equal(t, StateMedia, env.state(t, 42))
	})

	t.Run("unsupported media kind rejected", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))

		replies := env.dispatcher.HandleEvent(ctx, testUser(), MediaEvent(StagedMedia{Path: stageFile(t, "doc.pdf"), Kind: MediaKind("document"), Size: 100}))
		require.Len(t, replies, 1)
		assert.Contains(t, replies[0].Text, "только фото и видео")
		assert.Empty(t, env.dispatcher.submission(42).Media)
	})

	t.Run("out-of-state events are silent", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))

		assert.Nil(t, env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("1234")))
		assert.Nil(t, env.dispatcher.HandleEvent(ctx, testUser(), LocationEvent(53.2, 50.18)))
		assert.Nil(t, env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionYes)))
		assert.Equal(t, StateMedia, env.state(t, 42))
	})
}

func (e *testEnv) advanceToOrderNumber(t *testing.T, ctx context.Context, paths ...string) {
	t.Helper()
	e.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))
	for _, path := range paths {
		e.dispatcher.HandleEvent(ctx, testUser(), MediaEvent(StagedMedia{Path: path, Kind: MediaImage, Size: 100}))
	}
	e.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionFinishMedia))
	require.Equal(t, StateOrderNumber, e.state(t, 42))
}

func TestDispatcher_OrderNumberGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-digit input without state change", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		env.advanceToOrderNumber(t, ctx, stageFile(t, "a.jpg"))

		for _, input := range []string{"abc", "12.5", ""} {
			replies := env.dispatcher.HandleEvent(ctx, testUser(), TextEvent(input))
			require.Len(t, replies, 1, "input %q", input)
			assert.Equal(t, StateOrderNumber, env.state(t, 42), "input %q", input)
			assert.Empty(t, env.dispatcher.submission(42).OrderNumber)
		}
	})

	t.Run("stays when folder is missing", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		env.advanceToOrderNumber(t, ctx, stageFile(t, "a.jpg"))

		replies := env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("1234"))
		require.Len(t, replies, 1)
		assert.Contains(t, replies[0].Text, "не найдена")
		assert.Equal(t, StateOrderNumber, env.state(t, 42))
	})

	t.Run("advances when folder exists", func(t *testing.T) {
		env := newTestEnv(defaultConfig())
		env.disk.folders["1234"] = true
		env.advanceToOrderNumber(t, ctx, stageFile(t, "a.jpg"))

		env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("1234"))
		assert.Equal(t, StateGeolocation, env.state(t, 42))
		assert.Equal(t, "1234", env.dispatcher.submission(42).OrderNumber)
	})

	t.Run("skips geolocation when disabled", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.CollectLocation = false
		env := newTestEnv(cfg)
		env.disk.folders["1234"] = true
		env.advanceToOrderNumber(t, ctx, stageFile(t, "a.jpg"))

		env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("1234"))
		assert.Equal(t, StateConfirm, env.state(t, 42))
	})
}

func TestDispatcher_DistanceVariant(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfig()
	cfg.CollectLocation = false
	cfg.CollectDistance = true

	env := newTestEnv(cfg)
	env.disk.folders["5001"] = true
	env.advanceToOrderNumber(t, ctx, stageFile(t, "a.jpg"))
	env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("5001"))
	env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionYes))
	require.Equal(t, StateDistance, env.state(t, 42))

	replies := env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("not a number"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "корректное число")
	assert.Equal(t, StateDistance, env.state(t, 42))

	replies = env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("5001"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "номер заказа")
	assert.Equal(t, StateDistance, env.state(t, 42))

	env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("12.5"))
	require.Equal(t, StateComment, env.state(t, 42))
	assert.Equal(t, 12.5, env.dispatcher.submission(42).Distance)
}

func TestDispatcher_EndToEnd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(defaultConfig())
	env.disk.folders["5001"] = true

	photoPath := stageFile(t, "proof.jpg")
	env.advanceToOrderNumber(t, ctx, photoPath)

	env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("5001"))
	require.Equal(t, StateGeolocation, env.state(t, 42))

	replies := env.dispatcher.HandleEvent(ctx, testUser(), LocationEvent(53.2, 50.18))
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, env.geocoder.address)
	require.Equal(t, StateConfirm, env.state(t, 42))

	env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionYes))
	require.Equal(t, StateComment, env.state(t, 42))

	replies = env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("all good"))
	require.NotEmpty(t, replies)

	// Upload reached the remote folder for the order.
	assert.Equal(t, 1, env.disk.uploadCalls)

	// Staged copy is gone.
	assert.NoFileExists(t, photoPath)

	// One durable record with the collected fields.
	require.Len(t, env.store.applied, 1)
	applied := env.store.applied[0]
	assert.Equal(t, int64(42), applied.UserID)
	assert.Equal(t, "5001", applied.OrderNumber)
	assert.True(t, applied.Success)
	assert.Equal(t, "all good", applied.Comment)
	assert.Equal(t, env.geocoder.address, applied.Address)

	// One report in the company group.
	require.Len(t, env.broadcaster.reports, 1)
	report := env.broadcaster.reports[0]
	assert.Equal(t, int64(-100123), report.chatID)
	assert.Contains(t, report.caption, "5001")
	assert.Contains(t, report.caption, "Да")
	assert.Contains(t, report.caption, "all good")
	assert.Contains(t, report.caption, env.geocoder.address)

	// Fresh start offered, submission destroyed.
	last := replies[len(replies)-1]
	assert.NotEmpty(t, last.Keyboard)
	assert.Nil(t, env.dispatcher.submission(42))

	// A repeated comment cannot re-run the finalize sequence.
	assert.Nil(t, env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("all good")))
	assert.Len(t, env.store.applied, 1)
	assert.Len(t, env.broadcaster.reports, 1)
}

func TestDispatcher_PartialUploadFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(defaultConfig())
	env.disk.folders["7777"] = true
	env.disk.failOnCall[2] = true

	paths := []string{stageFile(t, "1.jpg"), stageFile(t, "2.jpg"), stageFile(t, "3.jpg")}
	env.advanceToOrderNumber(t, ctx, paths...)

	env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("7777"))
	env.dispatcher.HandleEvent(ctx, testUser(), LocationEvent(53.2, 50.18))
	env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionNo))
	replies := env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("-"))

	assert.Equal(t, 3, env.disk.uploadCalls)

	var failures []string
	for _, reply := range replies {
		if strings.Contains(reply.Text, "Ошибка при загрузке") {
			failures = append(failures, reply.Text)
		}
	}
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "файла 2")

	for _, path := range paths {
		assert.NoFileExists(t, path)
	}

	require.Len(t, env.store.applied, 1)
	assert.False(t, env.store.applied[0].Success)
	assert.Equal(t, NoComment, env.store.applied[0].Comment)
	assert.Len(t, env.broadcaster.reports, 1)
}

func TestDispatcher_PublishFailureSurfacedToUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(defaultConfig())
	env.disk.folders["5001"] = true
	env.broadcaster.err = assert.AnError

	env.advanceToOrderNumber(t, ctx, stageFile(t, "a.jpg"))
	env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("5001"))
	env.dispatcher.HandleEvent(ctx, testUser(), LocationEvent(53.2, 50.18))
	env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionYes))
	replies := env.dispatcher.HandleEvent(ctx, testUser(), TextEvent("done"))

	var notified bool
	for _, reply := range replies {
		if strings.Contains(reply.Text, "Не удалось отправить отчёт") {
			notified = true
		}
	}
	assert.True(t, notified)

	// The closing reply must not contradict the failure notice.
	last := replies[len(replies)-1]
	assert.NotContains(t, last.Text, "Отчёт отправлен")
	assert.Contains(t, last.Text, "Заявка обработана")
	assert.NotEmpty(t, last.Keyboard)

	// Persistence is independent of publication.
	assert.Len(t, env.store.applied, 1)
	assert.Nil(t, env.dispatcher.submission(42))
}

func TestDispatcher_Cancel(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(defaultConfig())

	path := stageFile(t, "a.jpg")
	env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))
	env.dispatcher.HandleEvent(ctx, testUser(), MediaEvent(StagedMedia{Path: path, Kind: MediaImage, Size: 100}))

	replies := env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionCancel))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "отменено")
	assert.Nil(t, env.dispatcher.submission(42))
	assert.NoFileExists(t, path)

	// Cancel without an active submission is a no-op.
	assert.Nil(t, env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionCancel)))
}

func TestDispatcher_RestartReplacesSubmission(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(defaultConfig())

	path := stageFile(t, "a.jpg")
	env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionStart))
	env.dispatcher.HandleEvent(ctx, testUser(), MediaEvent(StagedMedia{Path: path, Kind: MediaImage, Size: 100}))

	env.dispatcher.HandleEvent(ctx, testUser(), ActionEvent(ActionRestart))
	sub := env.dispatcher.submission(42)
	require.NotNil(t, sub)
	assert.Equal(t, StateMedia, sub.State)
	assert.Empty(t, sub.Media)
	assert.NoFileExists(t, path)
}
