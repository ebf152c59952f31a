package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/smartystreets/goconvey/convey"

	"github.com/salillakra/e-summit26-sub001/handlers"
	"github.com/salillakra/e-summit26-sub001/middleware"
	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/services"
)

const testSecret = "test-secret"

type stubRegistrationService struct {
	lastInput  *services.RegisterTeamInput
	lastUserID int
}

func (s *stubRegistrationService) RegisterTeamForEvent(_ context.Context, input services.RegisterTeamInput, currentUserID int) (*models.EventRegistration, error) {
	s.lastInput = &input
	s.lastUserID = currentUserID
	return &models.EventRegistration{
		ID:      1,
		EventID: input.EventID,
		TeamID:  input.TeamID,
		UserID:  currentUserID,
		Status:  models.RegistrationStatusConfirmed,
	}, nil
}

func (s *stubRegistrationService) UploadSubmissionAsset(_ context.Context, filename, _ string, _ io.Reader) (string, error) {
	return "https://assets.example.com/submissions/" + filename, nil
}

func bearerToken(t *testing.T, userID int) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    string(models.RoleUser),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return "Bearer " + signed
}

func TestRegisterTeamForEventRoute(t *testing.T) {
	convey.Convey("Given the event registration route", t, func() {
		stub := &stubRegistrationService{}
		handler := handlers.NewRegistrationHandler(stub)
		auth := middleware.NewAuth(testSecret)

		router := chi.NewRouter()
		router.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/events/{eventID}/register", handler.RegisterTeamForEvent)
		})

		post := func(path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
			req.Header.Set("Authorization", bearerToken(t, 7))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			return rec
		}

		convey.Convey("When the body names no event", func() {
			rec := post("/events/1/register", `{"team_id":3}`)

			convey.Convey("Then the event comes from the URL", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusCreated)
				convey.So(stub.lastInput, convey.ShouldNotBeNil)
				convey.So(stub.lastInput.EventID, convey.ShouldEqual, 1)
				convey.So(stub.lastInput.TeamID, convey.ShouldEqual, 3)
				convey.So(stub.lastUserID, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When the body repeats the URL's event", func() {
			rec := post("/events/1/register", `{"event_id":1,"team_id":3}`)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusCreated)
			convey.So(stub.lastInput.EventID, convey.ShouldEqual, 1)
		})

		convey.Convey("When the body names a different event than the URL", func() {
			rec := post("/events/1/register", `{"event_id":2,"team_id":3}`)

			convey.Convey("Then the request is rejected before reaching the service", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
				convey.So(stub.lastInput, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the event id in the URL is not a number", func() {
			rec := post("/events/abc/register", `{"team_id":3}`)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}
