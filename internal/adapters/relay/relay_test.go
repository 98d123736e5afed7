package relay_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

var errRejected = errors.New("rejected")

// relayServer answers every request with status and body and records the
// target it was asked to fetch.
func relayServer(status int, body string, seen *[]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = append(*seen, r.URL.Query().Get("url"))
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func prefixOf(name string, srv *httptest.Server) relay.Relay {
	return relay.Relay{Name: name, Prefix: srv.URL + "/get?url="}
}

func deadRelay(name string) relay.Relay {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return relay.Relay{Name: name, Prefix: srv.URL + "/get?url="}
}

func accept(doc string) (string, error) { return doc, nil }

func TestUnwrap(t *testing.T) {
	Convey("Given relay response bodies", t, func() {
		Convey("When the body is a contents envelope", func() {
			Convey("Then the inner document is returned", func() {
				So(relay.Unwrap([]byte(`{"contents":"<html>ok</html>","status":{"http_code":200}}`)), ShouldEqual, "<html>ok</html>")
			})
		})

		Convey("When the envelope has null contents", func() {
			Convey("Then the document is empty", func() {
				So(relay.Unwrap([]byte(`{"contents":null}`)), ShouldEqual, "")
			})
		})

		Convey("When the body is plain JSON without an envelope", func() {
			body := `{"name":"Zezima","totalxp":1}`
			Convey("Then it is returned verbatim", func() {
				So(relay.Unwrap([]byte(body)), ShouldEqual, body)
			})
		})

		Convey("When the body is HTML", func() {
			Convey("Then it is returned verbatim", func() {
				So(relay.Unwrap([]byte("<table></table>")), ShouldEqual, "<table></table>")
			})
		})
	})
}

func TestRelayURL(t *testing.T) {
	Convey("Given a relay prefix", t, func() {
		r := relay.Relay{Name: "p", Prefix: "https://relay.example/get?url="}

		Convey("Then the target is query escaped onto it", func() {
			got := r.URL("https://stats.example/profile?user=Iron Man")
			So(got, ShouldEqual, "https://relay.example/get?url="+url.QueryEscape("https://stats.example/profile?user=Iron Man"))
		})
	})
}

func TestDo(t *testing.T) {
	ctx := context.Background()
	client := relay.NewClient(relay.WithSource("test"))

	Convey("Given a chain whose first relay fails", t, func() {
		var seen []string
		bad := relayServer(http.StatusBadGateway, "", nil)
		defer bad.Close()
		good := relayServer(http.StatusOK, `{"contents":"payload"}`, &seen)
		defer good.Close()

		Convey("When walking the chain", func() {
			doc, err := relay.Do(ctx, client, []relay.Relay{prefixOf("bad", bad), prefixOf("good", good)}, "https://target.example/x", accept)

			Convey("Then the next relay serves the unwrapped document", func() {
				So(err, ShouldBeNil)
				So(doc, ShouldEqual, "payload")
				So(seen, ShouldResemble, []string{"https://target.example/x"})
			})
		})
	})

	Convey("Given a handler that stops the chain", t, func() {
		calls := 0
		first := relayServer(http.StatusOK, "final answer", nil)
		defer first.Close()
		second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))
		defer second.Close()

		Convey("When the first document is rejected as final", func() {
			_, err := relay.Do(ctx, client, []relay.Relay{prefixOf("a", first), prefixOf("b", second)}, "t", func(doc string) (string, error) {
				return "", relay.Stop(errRejected)
			})

			Convey("Then the handler's error is returned and later relays are untouched", func() {
				So(err, ShouldEqual, errRejected)
				So(calls, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a chain where every relay is unreachable", t, func() {
		Convey("When walking the chain", func() {
			_, err := relay.Do(ctx, client, []relay.Relay{deadRelay("a"), deadRelay("b")}, "t", accept)

			Convey("Then the exhaustion reports transport failures only", func() {
				So(errors.Is(err, relay.ErrExhausted), ShouldBeTrue)
				So(errors.Is(err, relay.ErrTransport), ShouldBeTrue)
				var ex *relay.ExhaustedError
				So(errors.As(err, &ex), ShouldBeTrue)
				So(ex.Attempts, ShouldHaveLength, 2)
				So(ex.TransportOnly(), ShouldBeTrue)
			})
		})
	})

	Convey("Given a chain where the last relay delivers a rejected document", t, func() {
		empty := relayServer(http.StatusOK, "   ", nil)
		defer empty.Close()
		odd := relayServer(http.StatusOK, "something else", nil)
		defer odd.Close()

		Convey("When walking the chain", func() {
			_, err := relay.Do(ctx, client, []relay.Relay{prefixOf("empty", empty), prefixOf("odd", odd)}, "t", func(doc string) (string, error) {
				return "", errRejected
			})

			Convey("Then the last error is visible and not every failure was transport", func() {
				So(errors.Is(err, errRejected), ShouldBeTrue)
				var ex *relay.ExhaustedError
				So(errors.As(err, &ex), ShouldBeTrue)
				So(errors.Is(ex.Attempts[0].Err, relay.ErrEmptyBody), ShouldBeTrue)
				So(ex.TransportOnly(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		srv := relayServer(http.StatusOK, "doc", nil)
		defer srv.Close()

		Convey("Then the chain returns the context error", func() {
			_, err := relay.Do(cctx, client, []relay.Relay{prefixOf("a", srv)}, "t", accept)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestSet(t *testing.T) {
	Convey("Given a relay set", t, func() {
		s := relay.NewSet(relay.Defaults())

		Convey("When the list is replaced", func() {
			s.Store([]relay.Relay{{Name: "only", Prefix: "http://x/?"}})

			Convey("Then readers see the new list", func() {
				So(s.Load(), ShouldHaveLength, 1)
				So(s.Load()[0].Name, ShouldEqual, "only")
			})
		})
	})
}
