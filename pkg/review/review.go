// Package review asks the host platform to show its store review prompt.
package review

import (
	"sync"

	drifterrors "github.com/go-drift/drift/pkg/errors"
	"github.com/go-drift/drift/pkg/platform"
)

// ChannelName is the method channel the native side listens on.
const ChannelName = "sing-box/review"

// MethodRequestReview is invoked with no arguments.
const MethodRequestReview = "requestReview"

// Requester triggers a review prompt. The caller never observes whether
// the prompt was shown.
type Requester interface {
	RequestReview()
}

// Invoker calls a native method. *platform.MethodChannel satisfies it.
type Invoker interface {
	Invoke(method string, args any) (any, error)
}

// ChannelRequester invokes MethodRequestReview on a method channel from a
// goroutine, so the UI thread never blocks on the native side.
type ChannelRequester struct {
	invoker Invoker
	wg      sync.WaitGroup
}

var (
	channelOnce sync.Once
	channel     *platform.MethodChannel
)

// NewChannelRequester returns a requester on invoker. A nil invoker uses
// the shared ChannelName method channel.
func NewChannelRequester(invoker Invoker) *ChannelRequester {
	if invoker == nil {
		channelOnce.Do(func() {
			channel = platform.NewMethodChannel(ChannelName)
		})
		invoker = channel
	}
	return &ChannelRequester{invoker: invoker}
}

// RequestReview fires the request and returns immediately. Failures are
// reported to the Drift error handler.
func (r *ChannelRequester) RequestReview() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer drifterrors.Recover("review.RequestReview")
		if _, err := r.invoker.Invoke(MethodRequestReview, nil); err != nil {
			drifterrors.Report(&drifterrors.DriftError{
				Op:      "review.RequestReview",
				Kind:    drifterrors.KindPlatform,
				Channel: ChannelName,
				Err:     err,
			})
		}
	}()
}

// Wait blocks until every pending request has finished.
func (r *ChannelRequester) Wait() {
	r.wg.Wait()
}
