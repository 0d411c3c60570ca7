package driven

import "context"

// TaskQueue runs detached work on behalf of the request path.
// Submissions never block and their failure never affects the primary
// response being returned to the caller.
type TaskQueue interface {
	// Submit schedules fn to run in the background. The name is used
	// for logging only.
	Submit(name string, fn func(ctx context.Context))
}
