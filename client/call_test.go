package client

import (
	"sync"
	"testing"
	"time"
)

func TestTracker_WaitWithConcurrentAdds(t *testing.T) {
	var tr tracker

	// Returns at once when nothing is in flight.
	tr.wait()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Go(func() {
			for {
				select {
				case <-stop:
					return
				default:
				}
				tr.wait()
			}
		})
	}

	for range 500 {
		tr.add()
		go func() {
			time.Sleep(time.Microsecond)
			tr.done()
		}()
	}

	tr.wait()
	close(stop)
	wg.Wait()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.n != 0 {
		t.Errorf("exp no calls in flight, got %d", tr.n)
	}
}

func TestTracker_WaitBlocksUntilDone(t *testing.T) {
	var tr tracker
	tr.add()

	returned := make(chan struct{})
	go func() {
		tr.wait()
		close(returned)
	}()

	select {
	case <-returned:
		t.Fatal("wait returned with a call in flight")
	case <-time.After(20 * time.Millisecond):
	}

	tr.done()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after the last call finished")
	}
}
