package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/adapters/http/web"
	service "github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/app"
	"github.com/basmalaemara/Online-Gaming-Platform-Architecture/internal/domain/model"
)

type mockDeps struct {
	hits      [][2]int
	hitErr    error
	relErr    error
	dashboard service.Dashboard
	viewed    [][]int
}

func (m *mockDeps) PlayerHit(_ context.Context, a, d int) (service.HitResult, error) {
	if m.hitErr != nil {
		return service.HitResult{}, m.hitErr
	}
	m.hits = append(m.hits, [2]int{a, d})
	return service.HitResult{Damage: 5, RelationalErr: m.relErr}, nil
}

func (m *mockDeps) Dashboard(_ context.Context, ids ...int) service.Dashboard {
	m.viewed = append(m.viewed, ids)
	return m.dashboard
}

type client struct {
	mux    *http.ServeMux
	cookie *http.Cookie
}

func (c *client) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.mux.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == web.SessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func newClient(deps *mockDeps) *client {
	mux := http.NewServeMux()
	web.NewHandler(deps).Register(context.Background(), mux)
	return &client{mux: mux}
}

func hitForm(attacker string) url.Values {
	return url.Values{"p1": {"1"}, "p2": {"2"}, "attacker": {attacker}}
}

func TestIndex(t *testing.T) {
	Convey("Given a fresh browser", t, func() {
		deps := &mockDeps{dashboard: service.Dashboard{
			Leaderboard: service.Panel[model.LeaderboardEntry]{Rows: []model.LeaderboardEntry{
				{GameID: "1", PlayerID: "7", Score: 35},
			}},
			Players: []service.PlayerPanels{
				{PlayerID: 1, Relational: service.Panel[model.StatSnapshot]{Err: errors.New("pq: connection refused")}},
			},
		}}
		c := newClient(deps)

		Convey("When loading the dashboard", func() {
			w := c.do(http.MethodGet, "/", nil)

			Convey("Then both fighters start at full health", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p1">100</span>`)
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p2">100</span>`)
				So(w.Body.String(), ShouldContainSubstring, "P1 Hit!")
			})

			Convey("And a session cookie is issued", func() {
				So(c.cookie, ShouldNotBeNil)
				So(c.cookie.HttpOnly, ShouldBeTrue)
			})

			Convey("And the panels render, including read errors", func() {
				So(w.Body.String(), ShouldContainSubstring, "<td>7</td><td>35</td>")
				So(w.Body.String(), ShouldContainSubstring, "pq: connection refused")
				So(deps.viewed[0], ShouldResemble, []int{1, 2})
			})
		})

		Convey("When a player id is invalid", func() {
			w := c.do(http.MethodGet, "/?p1=abc", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting an unknown path", func() {
			w := c.do(http.MethodGet, "/nope", nil)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHit(t *testing.T) {
	Convey("Given a browser session", t, func() {
		deps := &mockDeps{}
		c := newClient(deps)
		c.do(http.MethodGet, "/", nil)

		Convey("When P1 hits", func() {
			w := c.do(http.MethodPost, "/hit", hitForm("1"))

			Convey("Then player 1 attacks player 2 and P2 loses 5", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.hits, ShouldResemble, [][2]int{{1, 2}})
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p2">95</span>`)
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p1">100</span>`)
			})
		})

		Convey("When P2 hits with custom ids", func() {
			w := c.do(http.MethodPost, "/hit", url.Values{"p1": {"10"}, "p2": {"20"}, "attacker": {"2"}})

			Convey("Then the ids are swapped for the call", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.hits, ShouldResemble, [][2]int{{20, 10}})
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p1">95</span>`)
			})
		})

		Convey("When P1 hits twenty times", func() {
			for range 20 {
				c.do(http.MethodPost, "/hit", hitForm("1"))
			}
			w := c.do(http.MethodGet, "/", nil)

			Convey("Then the match is over and player 1 wins", func() {
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p2">0</span>`)
				So(w.Body.String(), ShouldContainSubstring, "Player 1 wins!")
				So(w.Body.String(), ShouldNotContainSubstring, "P1 Hit!")
				So(w.Body.String(), ShouldContainSubstring, "Restart")
			})

			Convey("And further hits are ignored", func() {
				c.do(http.MethodPost, "/hit", hitForm("2"))
				So(deps.hits, ShouldHaveLength, 20)
			})

			Convey("And restart resets both fighters", func() {
				w := c.do(http.MethodPost, "/restart", url.Values{"p1": {"1"}, "p2": {"2"}})
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p1">100</span>`)
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p2">100</span>`)
				So(w.Body.String(), ShouldContainSubstring, "P1 Hit!")
			})
		})

		Convey("When another browser plays", func() {
			c.do(http.MethodPost, "/hit", hitForm("1"))
			other := &client{mux: c.mux}
			w := other.do(http.MethodGet, "/", nil)

			Convey("Then its match is separate", func() {
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p2">100</span>`)
			})
		})

		Convey("When the relational copy fails", func() {
			deps.relErr = errors.New("pq: connection refused")
			w := c.do(http.MethodPost, "/hit", hitForm("1"))

			Convey("Then the hit applies and the error is shown", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "SQL insert failed: pq: connection refused")
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p2">95</span>`)
			})
		})

		Convey("When the hit fails", func() {
			deps.hitErr = errors.New("redis down")
			w := c.do(http.MethodPost, "/hit", hitForm("1"))

			Convey("Then health is unchanged and the error is shown", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "redis down")
				So(w.Body.String(), ShouldContainSubstring, `<span id="health-p2">100</span>`)
			})
		})

		Convey("When the attacker side is invalid", func() {
			w := c.do(http.MethodPost, "/hit", hitForm("3"))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.hits, ShouldBeEmpty)
		})
	})
}
