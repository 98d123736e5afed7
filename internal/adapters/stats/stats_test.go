package stats_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/stats"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

const profileJSON = `{"magic":0,"questsstarted":2,"totalskill":2898,"totalxp":5400000000,"rank":"1,234",
"combatlevel":152,"name":"Zezima","skillvalues":[
{"level":120,"xp":1040340000,"rank":55,"id":26},
{"level":99,"xp":2000000000,"rank":12,"id":0},
{"level":99,"xp":140000000,"id":4}]}`

const privateJSON = `{"error":"PROFILE_PRIVATE","loggedIn":"false"}`
const missingJSON = `{"error":"NO_PROFILE","loggedIn":"false"}`

type fakeRelay struct {
	srv     *httptest.Server
	targets []string
}

func newFakeRelay(status int, body string) *fakeRelay {
	f := &fakeRelay{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.targets = append(f.targets, r.URL.Query().Get("url"))
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	return f
}

func (f *fakeRelay) relay(name string) relay.Relay {
	return relay.Relay{Name: name, Prefix: f.srv.URL + "/?url="}
}

func deadRelay(name string) relay.Relay {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return relay.Relay{Name: name, Prefix: srv.URL + "/?url="}
}

func envelope(doc string) string {
	return fmt.Sprintf(`{"contents":%q,"status":{"http_code":200}}`, doc)
}

func TestFetchProfile(t *testing.T) {
	ctx := context.Background()

	Convey("Given a relay wrapping a public profile in an envelope", t, func() {
		good := newFakeRelay(http.StatusOK, envelope(profileJSON))
		defer good.srv.Close()
		client := stats.NewClient(relay.NewSet([]relay.Relay{good.relay("allorigins")}), stats.WithBaseURL("https://stats.example/profile?user="))

		Convey("When fetching the profile", func() {
			p, err := client.FetchProfile(ctx, "Iron Man")

			Convey("Then the subject is escaped into the target URL", func() {
				So(good.targets, ShouldResemble, []string{"https://stats.example/profile?user=Iron%20Man"})
			})

			Convey("Then the profile is decoded with skills ordered by id", func() {
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "Zezima")
				So(p.Rank, ShouldEqual, 1234)
				So(p.TotalXP, ShouldEqual, 5400000000)
				So(p.Skills, ShouldHaveLength, 3)
				So(p.Skills[0].ID, ShouldEqual, 0)
				So(p.Skills[1].ID, ShouldEqual, 4)
				So(p.Skills[1].Rank, ShouldEqual, model.Unranked)
				So(p.Skills[2].ID, ShouldEqual, 26)
			})
		})
	})

	Convey("Given a private profile on the first relay", t, func() {
		first := newFakeRelay(http.StatusOK, privateJSON)
		defer first.srv.Close()
		second := newFakeRelay(http.StatusOK, profileJSON)
		defer second.srv.Close()
		client := stats.NewClient(relay.NewSet([]relay.Relay{first.relay("a"), second.relay("b")}))

		Convey("When fetching the profile", func() {
			_, err := client.FetchProfile(ctx, "Hidden")

			Convey("Then the fetch stops with the private error", func() {
				So(errors.Is(err, stats.ErrPrivateProfile), ShouldBeTrue)
				So(second.targets, ShouldBeEmpty)
				So(stats.Message(err), ShouldStartWith, "User profile is PRIVATE")
			})
		})
	})

	Convey("Given an unknown subject", t, func() {
		only := newFakeRelay(http.StatusOK, missingJSON)
		defer only.srv.Close()
		client := stats.NewClient(relay.NewSet([]relay.Relay{only.relay("a")}))

		Convey("Then the fetch reports not found", func() {
			_, err := client.FetchProfile(ctx, "Nobody")
			So(errors.Is(err, stats.ErrNotFound), ShouldBeTrue)
			So(stats.Message(err), ShouldEqual, "User not found on RuneMetrics.")
		})
	})

	Convey("Given an unrecognized source marker", t, func() {
		only := newFakeRelay(http.StatusOK, `{"error":"RATE_LIMITED"}`)
		defer only.srv.Close()
		client := stats.NewClient(relay.NewSet([]relay.Relay{only.relay("a")}))

		Convey("Then the fetch reports a relay error naming the marker", func() {
			_, err := client.FetchProfile(ctx, "Zezima")
			So(errors.Is(err, stats.ErrRelay), ShouldBeTrue)
			So(stats.Message(err), ShouldEqual, "RS API Error: RATE_LIMITED")
		})
	})

	Convey("Given relays that are all unreachable", t, func() {
		client := stats.NewClient(relay.NewSet([]relay.Relay{deadRelay("a"), deadRelay("b")}))

		Convey("Then the fetch reports a connection failure", func() {
			_, err := client.FetchProfile(ctx, "Zezima")
			So(errors.Is(err, stats.ErrConnection), ShouldBeTrue)
			So(stats.Message(err), ShouldStartWith, "Connection failed.")
		})
	})

	Convey("Given a failing relay followed by one returning garbage", t, func() {
		bad := newFakeRelay(http.StatusBadGateway, "")
		defer bad.srv.Close()
		garbage := newFakeRelay(http.StatusOK, "<html>oops</html>")
		defer garbage.srv.Close()
		client := stats.NewClient(relay.NewSet([]relay.Relay{bad.relay("a"), garbage.relay("b")}))

		Convey("Then the last failure is reported as a parse error", func() {
			_, err := client.FetchProfile(ctx, "Zezima")
			So(errors.Is(err, stats.ErrRelay), ShouldBeTrue)
			So(errors.Is(err, stats.ErrParse), ShouldBeTrue)
			So(errors.Is(err, stats.ErrConnection), ShouldBeFalse)
		})
	})

	Convey("Given more relays than the primary limit", t, func() {
		good := newFakeRelay(http.StatusOK, profileJSON)
		defer good.srv.Close()
		client := stats.NewClient(
			relay.NewSet([]relay.Relay{deadRelay("a"), deadRelay("b"), good.relay("c")}),
			stats.WithRelayLimit(2),
		)

		Convey("Then relays past the limit are never tried", func() {
			_, err := client.FetchProfile(ctx, "Zezima")
			So(errors.Is(err, stats.ErrConnection), ShouldBeTrue)
			So(good.targets, ShouldBeEmpty)
		})
	})
}
