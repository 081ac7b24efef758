package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SamueleCorsalini/outfit-chart/internal/adapters/http/api"
	"github.com/SamueleCorsalini/outfit-chart/internal/adapters/rowstore"
	service "github.com/SamueleCorsalini/outfit-chart/internal/app"
	"github.com/SamueleCorsalini/outfit-chart/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const testToken = "dress-code"

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// newTestServer spins up the full API over an in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(service.WithStore(rowstore.NewMemoryStore()))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, testToken).Register(context.Background(), mux)
	ts := httptest.NewServer(api.RequestIDMiddleware(mux))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string, admin bool) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("X-Admin-Token", testToken)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestAPI_AdminGate(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts := newTestServer(t)

		Convey("When mutating without the admin token", func() {
			resp, body := doJSON(t, http.MethodPut, ts.URL+"/top3/2024-01-10",
				`{"names":["Ada","Bo","Cy"]}`, false)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
				So(body["code"], ShouldEqual, "unauthorized")
			})
		})

		Convey("When reading without the admin token", func() {
			resp, _ := doJSON(t, http.MethodGet, ts.URL+"/leaderboard", "", false)

			Convey("Then reads stay open", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestAPI_Leaderboard(t *testing.T) {
	Convey("Given a ledger with one podium and one grant", t, func() {
		ts := newTestServer(t)

		resp, _ := doJSON(t, http.MethodPut, ts.URL+"/top3/2024-01-10",
			`{"names":["Ada","Bo","Cy"]}`, true)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		resp, _ = doJSON(t, http.MethodPost, ts.URL+"/extra-points",
			`{"date":"2024-01-11","name":"Bo","points":10,"reason":"sharp blazer"}`, true)
		So(resp.StatusCode, ShouldEqual, http.StatusCreated)

		Convey("When fetching the leaderboard", func() {
			resp, body := doJSON(t, http.MethodGet, ts.URL+"/leaderboard", "", false)

			Convey("Then entries come back ranked with the goal attached", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["goal"], ShouldEqual, 500)
				entries := body["entries"].([]any)
				So(len(entries), ShouldEqual, 3)
				first := entries[0].(map[string]any)
				So(first["name"], ShouldEqual, "Bo")
				So(first["score"], ShouldEqual, 30)
				So(first["rank"], ShouldEqual, 1)
			})
		})

		Convey("When fetching the history", func() {
			resp, body := doJSON(t, http.MethodGet, ts.URL+"/history", "", false)

			Convey("Then each participant has a cumulative series", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				series := body["series"].(map[string]any)
				So(series, ShouldContainKey, "Ada")
				So(series, ShouldContainKey, "Bo")
			})
		})
	})
}

func TestAPI_Top3(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts := newTestServer(t)

		Convey("When listing recorded dates on an empty ledger", func() {
			resp, body := doJSON(t, http.MethodGet, ts.URL+"/top3", "", false)

			Convey("Then the list is empty, not null", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				dates := body["dates"].([]any)
				So(len(dates), ShouldEqual, 0)
			})
		})

		Convey("When listing recorded dates after podiums and a grant", func() {
			resp, _ := doJSON(t, http.MethodPut, ts.URL+"/top3/2024-01-12",
				`{"names":["Ada","Bo","Cy"]}`, true)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			resp, _ = doJSON(t, http.MethodPut, ts.URL+"/top3/2024-01-10",
				`{"names":["Cy","Ada","Bo"]}`, true)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			resp, _ = doJSON(t, http.MethodPost, ts.URL+"/extra-points",
				`{"date":"2024-01-11","name":"Bo","points":10,"reason":"sharp blazer"}`, true)
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)

			resp, body := doJSON(t, http.MethodGet, ts.URL+"/top3", "", false)

			Convey("Then only podium dates come back, sorted ascending", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				dates := body["dates"].([]any)
				So(len(dates), ShouldEqual, 2)
				So(dates[0], ShouldEqual, "2024-01-10")
				So(dates[1], ShouldEqual, "2024-01-12")
			})
		})

		Convey("When fetching a date with no record", func() {
			resp, body := doJSON(t, http.MethodGet, ts.URL+"/top3/2024-01-09", "", false)

			Convey("Then it reads as not recorded, not as an error", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["recorded"], ShouldEqual, false)
			})
		})

		Convey("When recording and fetching a podium", func() {
			resp, _ := doJSON(t, http.MethodPut, ts.URL+"/top3/2024-01-10",
				`{"names":["Ada","Bo","Cy"]}`, true)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			resp, body := doJSON(t, http.MethodGet, ts.URL+"/top3/2024-01-10", "", false)

			Convey("Then the podium carries ranks and points", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["recorded"], ShouldEqual, true)
				podium := body["podium"].([]any)
				So(len(podium), ShouldEqual, 3)
				first := podium[0].(map[string]any)
				So(first["name"], ShouldEqual, "Ada")
				So(first["points"], ShouldEqual, 25)
			})

			Convey("And deleting it twice reports not found the second time", func() {
				resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/top3/2024-01-10", "", true)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				resp, body := doJSON(t, http.MethodDelete, ts.URL+"/top3/2024-01-10", "", true)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				So(body["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When recording with a missing name", func() {
			resp, body := doJSON(t, http.MethodPut, ts.URL+"/top3/2024-01-10",
				`{"names":["Ada","","Cy"]}`, true)

			Convey("Then validation rejects it", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When recording with the wrong number of names", func() {
			resp, _ := doJSON(t, http.MethodPut, ts.URL+"/top3/2024-01-10",
				`{"names":["Ada","Bo"]}`, true)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestAPI_Themes(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts := newTestServer(t)

		Convey("When scheduling a theme twice for one date", func() {
			resp, _ := doJSON(t, http.MethodPut, ts.URL+"/themes/2024-02-01",
				`{"theme":"Total Black"}`, true)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			resp, _ = doJSON(t, http.MethodPut, ts.URL+"/themes/2024-02-01",
				`{"theme":"Denim Day"}`, true)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("Then the last theme wins", func() {
				resp, body := doJSON(t, http.MethodGet, ts.URL+"/themes/2024-02-01", "", false)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["scheduled"], ShouldEqual, true)
				So(body["theme"], ShouldEqual, "Denim Day")
			})
		})

		Convey("When fetching a date with no theme", func() {
			resp, body := doJSON(t, http.MethodGet, ts.URL+"/themes/2024-02-02", "", false)

			Convey("Then it reads as unscheduled", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["scheduled"], ShouldEqual, false)
			})
		})
	})
}

func TestAPI_ExtraPoints(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts := newTestServer(t)

		Convey("When granting with non-positive points", func() {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/extra-points",
				`{"date":"2024-01-11","name":"Bo","points":0,"reason":"x"}`, true)

			Convey("Then validation rejects it", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When revoking a grant that does not exist", func() {
			resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/extra-points",
				`{"date":"2024-01-11","name":"Bo","points":10,"reason":"sharp blazer"}`, true)

			Convey("Then it reports not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When granting and revoking the same tuple", func() {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/extra-points",
				`{"date":"2024-01-11","name":"Bo","points":10,"reason":"sharp blazer"}`, true)
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)

			resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/extra-points",
				`{"date":"2024-01-11","name":"Bo","points":10,"reason":"sharp blazer"}`, true)

			Convey("Then the revoke succeeds", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestAPI_RequestID(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts := newTestServer(t)

		Convey("When making any request", func() {
			resp, _ := doJSON(t, http.MethodGet, ts.URL+"/leaderboard", "", false)

			Convey("Then the response carries a request id", func() {
				So(resp.Header.Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})
	})
}
