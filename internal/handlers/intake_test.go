package handlers

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uid-intake-bot/internal/config"
	apperrors "uid-intake-bot/internal/errors"
	"uid-intake-bot/internal/messages"
	"uid-intake-bot/internal/models"
	"uid-intake-bot/internal/permissions"
	"uid-intake-bot/internal/services"
)

type outgoing struct {
	chatID int64
	text   string
	video  string
}

type fakeOutbox struct {
	sent     []outgoing
	deleted  []int
	videoErr error
}

func (o *fakeOutbox) SendText(ctx context.Context, chatID int64, user models.TelegramUser, text string) (int, error) {
	o.sent = append(o.sent, outgoing{chatID: chatID, text: text})
	return len(o.sent), nil
}

func (o *fakeOutbox) SendVideo(ctx context.Context, chatID int64, user models.TelegramUser, path, caption string) (int, error) {
	if o.videoErr != nil {
		return 0, o.videoErr
	}
	o.sent = append(o.sent, outgoing{chatID: chatID, text: caption, video: path})
	return len(o.sent), nil
}

func (o *fakeOutbox) Delete(ctx context.Context, chatID int64, messageID int) error {
	o.deleted = append(o.deleted, messageID)
	return nil
}

func (o *fakeOutbox) last() string {
	if len(o.sent) == 0 {
		return ""
	}
	return o.sent[len(o.sent)-1].text
}

type fakeSubmissions struct {
	created []models.NewSubmission
	err     error
}

func (s *fakeSubmissions) Create(ctx context.Context, sub models.NewSubmission) (*models.Submission, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, sub)
	return &models.Submission{ID: "sub-1", TelegramUserID: sub.User.ID, Status: models.StatusPending}, nil
}

type fakeScreenshots struct {
	files []models.IncomingFile
	err   error
}

func (s *fakeScreenshots) StoreScreenshot(ctx context.Context, file models.IncomingFile) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.files = append(s.files, file)
	return "https://cdn/screenshots/" + file.FileID + ".jpg", nil
}

type fakeStats struct{}

func (fakeStats) Statistics(ctx context.Context) models.MessageStatistics {
	return models.MessageStatistics{TotalSent: 3, TotalReceived: 5, UniqueUsersMessaged: 2, TotalMessages: 8}
}

type intakeFixture struct {
	handler     *IntakeHandler
	state       *services.UserStateService
	outbox      *fakeOutbox
	submissions *fakeSubmissions
	screenshots *fakeScreenshots
	catalog     *messages.Catalog
	cfg         *config.Config
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newIntakeFixture(requireScreenshot bool) *intakeFixture {
	logger := newTestLogger()
	cfg := &config.Config{Flow: config.FlowConfig{RequireScreenshot: requireScreenshot}}

	f := &intakeFixture{
		state:       services.NewUserStateService(0, logger),
		outbox:      &fakeOutbox{},
		submissions: &fakeSubmissions{},
		screenshots: &fakeScreenshots{},
		catalog:     messages.NewCatalog(cfg.Flow),
		cfg:         cfg,
	}
	f.handler = NewIntakeHandler(f.state, f.submissions, f.screenshots, f.outbox, f.catalog, cfg, logger)
	return f
}

var ann = models.TelegramUser{ID: 42, Username: "trader", FirstName: "Ann"}

func command(name string) *models.Incoming {
	return &models.Incoming{User: ann, ChatID: ann.ID, Kind: models.KindCommand, Command: name, Text: name}
}

func text(body string) *models.Incoming {
	return &models.Incoming{User: ann, ChatID: ann.ID, Kind: models.KindText, Text: body}
}

func photo(fileID string) *models.Incoming {
	return &models.Incoming{User: ann, ChatID: ann.ID, Kind: models.KindPhoto,
		File: &models.IncomingFile{FileID: fileID, MIMEType: "image/jpeg"}}
}

func document(fileID, mime string) *models.Incoming {
	return &models.Incoming{User: ann, ChatID: ann.ID, Kind: models.KindDocument,
		File: &models.IncomingFile{FileID: fileID, FileName: "file", MIMEType: mime}}
}

func (f *intakeFixture) handle(t *testing.T, in *models.Incoming) {
	t.Helper()
	require.NoError(t, f.handler.Handle(context.Background(), in))
}

func (f *intakeFixture) stateOf(userID int64) models.UserState {
	state, _ := f.state.GetState(userID)
	return state
}

func TestStartResetsFlow(t *testing.T) {
	f := newIntakeFixture(true)
	uid := "7654321"
	f.state.SetState(ann.ID, models.UserState{State: models.AwaitingScreenshot, UID: &uid})

	f.handle(t, command("/start"))

	assert.Equal(t, models.AwaitingUID, f.stateOf(ann.ID).State)
	assert.Nil(t, f.stateOf(ann.ID).UID)
	assert.Equal(t, f.catalog.Welcome(true), f.outbox.last())
}

func TestStartSendsWelcomeVideo(t *testing.T) {
	f := newIntakeFixture(true)
	video := filepath.Join(t.TempDir(), "welcome.mp4")
	require.NoError(t, os.WriteFile(video, []byte("mp4"), 0o644))
	f.cfg.Flow.WelcomeVideoPath = video

	f.handle(t, command("/start"))

	require.Len(t, f.outbox.sent, 1)
	assert.Equal(t, video, f.outbox.sent[0].video)
	assert.Equal(t, f.catalog.Welcome(true), f.outbox.sent[0].text)
	assert.Equal(t, models.AwaitingUID, f.stateOf(ann.ID).State)
}

func TestStartFallsBackToTextWhenVideoFails(t *testing.T) {
	f := newIntakeFixture(true)
	video := filepath.Join(t.TempDir(), "welcome.mp4")
	require.NoError(t, os.WriteFile(video, []byte("mp4"), 0o644))
	f.cfg.Flow.WelcomeVideoPath = video
	f.outbox.videoErr = errors.New("file too big")

	f.handle(t, command("/start"))

	require.Len(t, f.outbox.sent, 1)
	assert.Empty(t, f.outbox.sent[0].video)
	assert.Equal(t, models.AwaitingUID, f.stateOf(ann.ID).State)
}

func TestValidUIDAwaitsScreenshot(t *testing.T) {
	f := newIntakeFixture(true)

	f.handle(t, command("/start"))
	f.handle(t, text(" 1234567 "))

	state := f.stateOf(ann.ID)
	assert.Equal(t, models.AwaitingScreenshot, state.State)
	require.NotNil(t, state.UID)
	assert.Equal(t, "1234567", *state.UID)
	assert.Equal(t, f.catalog.DepositInstructions("1234567"), f.outbox.last())
	assert.Empty(t, f.submissions.created)
}

func TestInvalidUIDKeepsState(t *testing.T) {
	for _, input := range []string{"12a", "123456", "12345678", "１２３４５６７"} {
		t.Run(input, func(t *testing.T) {
			f := newIntakeFixture(true)

			f.handle(t, command("/start"))
			f.handle(t, text(input))

			assert.Equal(t, models.AwaitingUID, f.stateOf(ann.ID).State)
			assert.Equal(t, f.catalog.InvalidUID(), f.outbox.last())
		})
	}
}

func TestMediaBeforeUIDAsksForUID(t *testing.T) {
	f := newIntakeFixture(true)

	f.handle(t, command("/start"))
	f.handle(t, photo("early"))

	assert.Equal(t, models.AwaitingUID, f.stateOf(ann.ID).State)
	assert.Equal(t, f.catalog.UIDFirst(), f.outbox.last())
	assert.Empty(t, f.screenshots.files)
}

func TestScreenshotCreatesSubmission(t *testing.T) {
	f := newIntakeFixture(true)

	f.handle(t, command("/start"))
	f.handle(t, text("1234567"))
	f.handle(t, photo("large"))

	require.Len(t, f.submissions.created, 1)
	sub := f.submissions.created[0]
	assert.Equal(t, "1234567", sub.UID)
	assert.Equal(t, "https://cdn/screenshots/large.jpg", sub.ImageURL)
	assert.Equal(t, ann, sub.User)

	_, found := f.state.GetState(ann.ID)
	assert.False(t, found)
	assert.Equal(t, f.catalog.Submitted(true), f.outbox.last())
	assert.Len(t, f.outbox.deleted, 1)
}

func TestImageDocumentIsAccepted(t *testing.T) {
	f := newIntakeFixture(true)

	f.handle(t, command("/start"))
	f.handle(t, text("1234567"))
	f.handle(t, document("scan", "image/png"))

	require.Len(t, f.submissions.created, 1)
	assert.Equal(t, models.Idle, f.stateOf(ann.ID).State)
}

func TestNonImageDocumentIsRejected(t *testing.T) {
	f := newIntakeFixture(true)

	f.handle(t, command("/start"))
	f.handle(t, text("1234567"))
	f.handle(t, document("pdf", "application/pdf"))

	assert.Empty(t, f.submissions.created)
	assert.Equal(t, models.AwaitingScreenshot, f.stateOf(ann.ID).State)
	assert.Equal(t, f.catalog.ImageRequired(), f.outbox.last())
}

func TestTextWhileAwaitingScreenshot(t *testing.T) {
	f := newIntakeFixture(true)

	f.handle(t, command("/start"))
	f.handle(t, text("1234567"))
	f.handle(t, text("done"))

	assert.Equal(t, models.AwaitingScreenshot, f.stateOf(ann.ID).State)
	assert.Equal(t, f.catalog.ScreenshotReminder(), f.outbox.last())
}

func TestUploadFailureKeepsState(t *testing.T) {
	f := newIntakeFixture(true)
	f.screenshots.err = errors.New("bucket missing")

	f.handle(t, command("/start"))
	f.handle(t, text("1234567"))
	f.handle(t, photo("large"))

	assert.Empty(t, f.submissions.created)
	assert.Equal(t, models.AwaitingScreenshot, f.stateOf(ann.ID).State)
	assert.Equal(t, f.catalog.SubmissionFailed(), f.outbox.last())

	// The user retries by resending the image
	f.screenshots.err = nil
	f.handle(t, photo("again"))
	require.Len(t, f.submissions.created, 1)
	assert.Equal(t, "1234567", f.submissions.created[0].UID)
}

func TestSchemaErrorIsReportedDistinctly(t *testing.T) {
	f := newIntakeFixture(true)
	f.submissions.err = &apperrors.SchemaError{Table: "submissions", Column: "user_uid", Code: "42703"}

	f.handle(t, command("/start"))
	f.handle(t, text("1234567"))
	f.handle(t, photo("large"))

	assert.Equal(t, f.catalog.SchemaProblem("user_uid"), f.outbox.last())
	assert.Equal(t, models.AwaitingScreenshot, f.stateOf(ann.ID).State)
}

func TestIdleUserGetsStartHint(t *testing.T) {
	f := newIntakeFixture(true)

	f.handle(t, text("hello"))
	assert.Equal(t, f.catalog.StartHint(), f.outbox.last())

	f.handle(t, photo("random"))
	assert.Equal(t, f.catalog.StartHint(), f.outbox.last())
	assert.Empty(t, f.screenshots.files)
}

func TestMissingSender(t *testing.T) {
	f := newIntakeFixture(true)

	f.handle(t, &models.Incoming{ChatID: 5, Kind: models.KindCommand, Command: "/start"})
	assert.Equal(t, f.catalog.NoUserInfo(), f.outbox.last())
}

func TestWithoutScreenshotValidUIDCreatesSubmission(t *testing.T) {
	f := newIntakeFixture(false)

	f.handle(t, command("/start"))
	f.handle(t, text("1234567"))

	require.Len(t, f.submissions.created, 1)
	assert.Equal(t, "1234567", f.submissions.created[0].UID)
	assert.Empty(t, f.submissions.created[0].ImageURL)

	_, found := f.state.GetState(ann.ID)
	assert.False(t, found)
	assert.Equal(t, f.catalog.Submitted(false), f.outbox.last())
	assert.Len(t, f.outbox.deleted, 1)
}

func TestWithoutScreenshotFailureKeepsState(t *testing.T) {
	f := newIntakeFixture(false)
	f.submissions.err = errors.New("connection refused")

	f.handle(t, command("/start"))
	f.handle(t, text("1234567"))

	assert.Equal(t, models.AwaitingUID, f.stateOf(ann.ID).State)
	assert.Equal(t, f.catalog.SubmissionFailed(), f.outbox.last())
}

func TestWithoutScreenshotMediaIsNotRequired(t *testing.T) {
	f := newIntakeFixture(false)

	f.handle(t, photo("x"))
	assert.Equal(t, f.catalog.ScreenshotNotRequired(), f.outbox.last())

	f.handle(t, command("/start"))
	f.handle(t, document("y", "image/png"))
	assert.Equal(t, f.catalog.ScreenshotNotRequired(), f.outbox.last())
	assert.Equal(t, models.AwaitingUID, f.stateOf(ann.ID).State)
}

func TestAdminStats(t *testing.T) {
	logger := newTestLogger()
	cfg := &config.Config{Flow: config.FlowConfig{RequireScreenshot: true}}
	state := services.NewUserStateService(0, logger)
	outbox := &fakeOutbox{}
	catalog := messages.NewCatalog(cfg.Flow)

	factory := NewHandlerFactory(state, &fakeSubmissions{}, &fakeScreenshots{}, outbox, fakeStats{}, catalog, cfg, logger)
	handler := factory.CreateHandler(permissions.Admin)

	require.NoError(t, handler.Handle(context.Background(), command("/stats")))
	assert.Equal(t, catalog.Statistics(fakeStats{}.Statistics(context.Background()), 0), outbox.last())

	// Admins still go through the intake flow
	require.NoError(t, handler.Handle(context.Background(), command("/start")))
	current, _ := state.GetState(ann.ID)
	assert.Equal(t, models.AwaitingUID, current.State)
}
