package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Dhushyanthcpu/lib/business/web/errs"
	"github.com/Dhushyanthcpu/lib/business/web/mid"
	"github.com/Dhushyanthcpu/lib/foundation/web"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Errors(t *testing.T) {
	t.Log("Given the need to turn handler errors into responses.")
	{
		log := zap.NewNop().Sugar()
		app := web.NewApp(make(chan os.Signal, 1), mid.Logger(log), mid.Errors(log), mid.Panics())

		app.Handle(http.MethodGet, "", "/trusted", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return errs.NewTrusted(errors.New("not found"), http.StatusNotFound)
		})
		app.Handle(http.MethodGet, "", "/untrusted", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return errors.New("disk exploded")
		})
		app.Handle(http.MethodGet, "", "/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			panic("boom")
		})

		tt := []struct {
			path   string
			status int
			msg    string
		}{
			{"/trusted", http.StatusNotFound, "not found"},
			{"/untrusted", http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)},
			{"/panic", http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)},
		}

		for testID, test := range tt {
			t.Logf("\tTest %d:\tWhen calling %s.", testID, test.path)
			{
				w := httptest.NewRecorder()
				app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, test.path, nil))

				if w.Code != test.status {
					t.Fatalf("\t%s\tTest %d:\tShould get status %d, got %d.", failed, testID, test.status, w.Code)
				}
				t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, test.status)

				var resp errs.Response
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error != test.msg {
					t.Fatalf("\t%s\tTest %d:\tShould get message %q, got %q: %v", failed, testID, test.msg, resp.Error, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get message %q.", success, testID, test.msg)
			}
		}
	}
}
