package gains_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/gains"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

type fakeRelay struct {
	srv   *httptest.Server
	calls int
}

func newFakeRelay(status int, body string) *fakeRelay {
	f := &fakeRelay{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	return f
}

func (f *fakeRelay) relay(name string) relay.Relay {
	return relay.Relay{Name: name, Prefix: f.srv.URL + "/get?url="}
}

func deadRelay(name string) relay.Relay {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return relay.Relay{Name: name, Prefix: srv.URL + "/get?url="}
}

func scraper(relays ...relay.Relay) *gains.Scraper {
	return gains.NewScraper(relay.NewSet(relays))
}

func TestFetchGains(t *testing.T) {
	ctx := context.Background()

	Convey("Given a relay serving a wrapped tracker page", t, func() {
		good := newFakeRelay(http.StatusOK, fmt.Sprintf(`{"contents":%q}`, trackPage))
		defer good.srv.Close()

		Convey("When fetching gains", func() {
			record, err := scraper(good.relay("allorigins")).FetchGains(ctx, "Zezima")

			Convey("Then the record is available with scaled deltas", func() {
				So(err, ShouldBeNil)
				So(record.Available, ShouldBeTrue)
				So(record.Reason, ShouldEqual, model.ReasonNone)
				So(record.Week[0], ShouldEqual, 12340)
			})
		})
	})

	Convey("Given a not-found page in any letter case", t, func() {
		first := newFakeRelay(http.StatusOK, notFoundPage)
		defer first.srv.Close()
		second := newFakeRelay(http.StatusOK, trackPage)
		defer second.srv.Close()

		Convey("When fetching gains", func() {
			record, err := scraper(first.relay("a"), second.relay("b")).FetchGains(ctx, "Nobody")

			Convey("Then the subject is not tracked and no other relay is asked", func() {
				So(err, ShouldBeNil)
				So(record.Available, ShouldBeFalse)
				So(record.Reason, ShouldEqual, model.ReasonNotTracked)
				So(record.Error, ShouldEqual, gains.MsgNotTracked)
				So(second.calls, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a page offering only an update control", t, func() {
		first := newFakeRelay(http.StatusOK, updatePage)
		defer first.srv.Close()

		Convey("Then the subject needs an update", func() {
			record, _ := scraper(first.relay("a")).FetchGains(ctx, "Fresh")
			So(record.Reason, ShouldEqual, model.ReasonNeedsUpdate)
			So(record.Error, ShouldEqual, gains.MsgNeedsUpdate)
		})
	})

	Convey("Given a short reply followed by a full page", t, func() {
		short := newFakeRelay(http.StatusOK, `{"contents":"<html></html>"}`)
		defer short.srv.Close()
		good := newFakeRelay(http.StatusOK, iconPage)
		defer good.srv.Close()

		Convey("Then the short reply is skipped", func() {
			record, _ := scraper(short.relay("a"), good.relay("b")).FetchGains(ctx, "Zezima")
			So(record.Available, ShouldBeTrue)
			So(short.calls, ShouldEqual, 1)
			So(record.Week[18], ShouldEqual, 60)
		})
	})

	Convey("Given relays that only return unrecognizable pages", t, func() {
		a := newFakeRelay(http.StatusOK, unrelatedPage)
		defer a.srv.Close()

		Convey("Then the structure is reported as unrecognized", func() {
			record, _ := scraper(a.relay("a"), deadRelay("b")).FetchGains(ctx, "Zezima")
			So(record.Reason, ShouldEqual, model.ReasonStructureUnrecognized)
			So(record.Error, ShouldEqual, gains.MsgUnrecognized)
		})
	})

	Convey("Given relays that deliver nothing", t, func() {
		busy := newFakeRelay(http.StatusServiceUnavailable, "")
		defer busy.srv.Close()

		Convey("Then the service is reported busy", func() {
			record, err := scraper(deadRelay("a"), busy.relay("b")).FetchGains(ctx, "Zezima")
			So(err, ShouldBeNil)
			So(record.Reason, ShouldEqual, model.ReasonServiceBusy)
			So(record.Error, ShouldEqual, gains.MsgServiceBusy)
			for _, w := range model.Windows {
				So(record.Window(w), ShouldNotBeNil)
			}
		})
	})
}
