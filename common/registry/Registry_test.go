package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Qthai16/go-deque/common/cldeque"
	"github.com/Qthai16/go-deque/common/registry"

	"github.com/juju/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Registry", t, func() {
		r := registry.New(registry.Config{Shards: 5})
		So(r.Shards, ShouldEqual, 8)

		Convey("creates deques on demand", func() {
			err := r.Do("jobs", true, func(d *cldeque.CircularList) error {
				return d.AddBack(1)
			})
			So(err, ShouldBeNil)
			So(r.Names(), ShouldResemble, []string{"jobs"})

			var front cldeque.Value
			err = r.Do("jobs", false, func(d *cldeque.CircularList) error {
				front = d.Front()
				return nil
			})
			So(err, ShouldBeNil)
			So(front, ShouldEqual, 1)
		})

		Convey("reports missing deques as not found", func() {
			err := r.Do("missing", false, func(d *cldeque.CircularList) error {
				return nil
			})
			So(errors.Is(err, errors.NotFound), ShouldBeTrue)
			So(r.Len(), ShouldEqual, 0)
		})

		Convey("rejects empty names", func() {
			err := r.Do("", true, func(d *cldeque.CircularList) error { return nil })
			So(errors.Is(err, errors.NotValid), ShouldBeTrue)
		})

		Convey("passes fn errors through", func() {
			r := registry.New(registry.Config{ListConf: cldeque.Config{Capacity: 1}})
			add := func(d *cldeque.CircularList) error { return d.AddBack(1) }
			So(r.Do("small", true, add), ShouldBeNil)
			So(r.Do("small", true, add), ShouldEqual, cldeque.ErrFull)
		})

		Convey("drops deques", func() {
			So(r.Do("a", true, func(d *cldeque.CircularList) error { return nil }), ShouldBeNil)
			So(r.Do("b", true, func(d *cldeque.CircularList) error { return nil }), ShouldBeNil)
			So(r.Names(), ShouldResemble, []string{"a", "b"})
			So(r.Drop("a"), ShouldBeTrue)
			So(r.Drop("a"), ShouldBeFalse)
			So(r.Names(), ShouldResemble, []string{"b"})
			r.Close()
			So(r.Len(), ShouldEqual, 0)
		})

		Convey("serializes concurrent access to one deque", func() {
			const workers, perWorker = 8, 200
			var wg sync.WaitGroup
			wg.Add(workers)
			for w := 0; w < workers; w++ {
				go func() {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						r.Do("shared", true, func(d *cldeque.CircularList) error {
							return d.AddBack(cldeque.Value(i))
						})
					}
				}()
			}
			wg.Wait()
			var size int
			r.Do("shared", false, func(d *cldeque.CircularList) error {
				size = d.Len()
				return nil
			})
			So(size, ShouldEqual, workers*perWorker)
		})
	})
}

func TestHashByName(t *testing.T) {
	Convey("every named hash spreads names over the shards", t, func() {
		for _, name := range []string{"jenkins", "murmur32", "murmur64"} {
			hash, err := registry.HashByName(name)
			So(err, ShouldBeNil)
			r := registry.New(registry.Config{Shards: 4, Hash: hash})
			for i := 0; i < 64; i++ {
				key := fmt.Sprintf("deque_%d", i)
				So(r.Do(key, true, func(d *cldeque.CircularList) error { return nil }), ShouldBeNil)
			}
			So(r.Len(), ShouldEqual, 64)
		}
		_, err := registry.HashByName("crc")
		So(errors.Is(err, errors.NotValid), ShouldBeTrue)
	})
}
