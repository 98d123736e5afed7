package kv_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/kv"
	. "github.com/smartystreets/goconvey/convey"
)

type opener func(t *testing.T, opts ...kv.Option) kv.Store

func backends() map[string]opener {
	return map[string]opener{
		"memory": func(t *testing.T, opts ...kv.Option) kv.Store {
			return kv.NewMemory(opts...)
		},
		"bolt": func(t *testing.T, opts ...kv.Option) kv.Store {
			s, err := kv.OpenBolt(filepath.Join(t.TempDir(), "tracker.db"), opts...)
			if err != nil {
				t.Fatalf("open bolt: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T, opts ...kv.Option) kv.Store {
			s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "tracker.sqlite"), opts...)
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return s
		},
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()

	for name, open := range backends() {
		Convey("Given a "+name+" store", t, func() {
			store := open(t, kv.WithQuota(64))
			defer store.Close()

			Convey("When a key is missing", func() {
				_, ok, err := store.Get(ctx, "absent")

				Convey("Then it is reported absent without error", func() {
					So(err, ShouldBeNil)
					So(ok, ShouldBeFalse)
				})
			})

			Convey("When values are written and replaced", func() {
				So(store.Put(ctx, "a", []byte("0123456789")), ShouldBeNil)
				So(store.Put(ctx, "a", []byte("01234")), ShouldBeNil)
				So(store.Put(ctx, "b", []byte("xyz")), ShouldBeNil)

				Convey("Then reads return the latest value and usage follows", func() {
					v, ok, err := store.Get(ctx, "a")
					So(err, ShouldBeNil)
					So(ok, ShouldBeTrue)
					So(string(v), ShouldEqual, "01234")
					usage, err := store.Usage(ctx)
					So(err, ShouldBeNil)
					So(usage, ShouldEqual, 8)
				})
			})

			Convey("When a write would exceed the quota", func() {
				So(store.Put(ctx, "a", make([]byte, 40)), ShouldBeNil)
				err := store.Put(ctx, "b", make([]byte, 30))

				Convey("Then it is rejected and existing data is intact", func() {
					So(errors.Is(err, kv.ErrQuotaExceeded), ShouldBeTrue)
					v, ok, _ := store.Get(ctx, "a")
					So(ok, ShouldBeTrue)
					So(v, ShouldHaveLength, 40)
					_, ok, _ = store.Get(ctx, "b")
					So(ok, ShouldBeFalse)
				})

				Convey("Then replacing a value with a smaller one still works", func() {
					So(store.Put(ctx, "a", make([]byte, 10)), ShouldBeNil)
					So(store.Put(ctx, "b", make([]byte, 30)), ShouldBeNil)
				})
			})

			Convey("When several keys are deleted together", func() {
				So(store.Put(ctx, "a", []byte("1")), ShouldBeNil)
				So(store.Put(ctx, "b", []byte("2")), ShouldBeNil)
				So(store.Put(ctx, "c", []byte("3")), ShouldBeNil)
				So(store.Delete(ctx, "a", "b", "missing"), ShouldBeNil)

				Convey("Then only the untouched key remains", func() {
					_, ok, _ := store.Get(ctx, "a")
					So(ok, ShouldBeFalse)
					_, ok, _ = store.Get(ctx, "b")
					So(ok, ShouldBeFalse)
					_, ok, _ = store.Get(ctx, "c")
					So(ok, ShouldBeTrue)
				})
			})

			Convey("When the key is blank", func() {
				Convey("Then the write is refused", func() {
					So(errors.Is(store.Put(ctx, " ", []byte("x")), kv.ErrInvalidKey), ShouldBeTrue)
				})
			})
		})
	}
}

func TestOpen(t *testing.T) {
	Convey("Given backend names", t, func() {
		Convey("Then memory needs no path", func() {
			s, err := kv.Open("memory", "")
			So(err, ShouldBeNil)
			So(s.Close(), ShouldBeNil)
		})

		Convey("Then durable backends need a path", func() {
			_, err := kv.Open("bolt", "")
			So(err, ShouldNotBeNil)
			_, err = kv.Open("sqlite", " ")
			So(err, ShouldNotBeNil)
		})

		Convey("Then unknown backends are rejected", func() {
			_, err := kv.Open("redis", "x")
			So(errors.Is(err, kv.ErrUnknownDriver), ShouldBeTrue)
		})
	})
}

func TestClosedMemory(t *testing.T) {
	Convey("Given a closed memory store", t, func() {
		s := kv.NewMemory()
		So(s.Close(), ShouldBeNil)

		Convey("Then operations report ErrClosed", func() {
			_, _, err := s.Get(context.Background(), "a")
			So(errors.Is(err, kv.ErrClosed), ShouldBeTrue)
			So(errors.Is(s.Put(context.Background(), "a", nil), kv.ErrClosed), ShouldBeTrue)
		})
	})
}
