package atomicx

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFloat64Add(t *testing.T) {
	Convey("When multiple writers add to a Float64 concurrently", t, func() {
		f := NewFloat64(0.0)
		numOps := 3000
		numWriters := 2

		wg := sync.WaitGroup{}
		wg.Add(numWriters)
		adder := func() {
			for i := 0; i < numOps; i++ {
				for {
					if _, ok := f.Add(1.0); ok {
						break
					}
				}
			}
			wg.Done()
		}

		for i := 0; i < numWriters; i++ {
			go adder()
		}
		wg.Wait()

		So(f.Load(), ShouldEqual, float64(numOps*numWriters))
	})
}

func TestFloat64RaiseTo(t *testing.T) {
	Convey("When multiple writers race to raise a Float64 to their own candidate", t, func() {
		f := NewFloat64(0.0)
		wg := sync.WaitGroup{}
		candidates := []float64{0.25, 0.5, 0.75, 1.0}
		wg.Add(len(candidates))
		for _, c := range candidates {
			c := c
			go func() {
				f.RaiseTo(c)
				wg.Done()
			}()
		}
		wg.Wait()

		So(f.Load(), ShouldEqual, 1.0)
	})
}

func TestInt64RaiseTo(t *testing.T) {
	Convey("When multiple writers race to raise an Int64 to their own candidate", t, func() {
		i := NewInt64(0)
		wg := sync.WaitGroup{}
		candidates := []int64{3, 11, 7, 19, 2}
		wg.Add(len(candidates))
		for _, c := range candidates {
			c := c
			go func() {
				i.RaiseTo(c)
				wg.Done()
			}()
		}
		wg.Wait()

		So(i.Load(), ShouldEqual, int64(19))
	})
}
