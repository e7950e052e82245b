package app

import (
	"context"
	"errors"

	"gpslogger/internal/logging"
	"gpslogger/internal/social"
)

type PostOutcome int

const (
	// PostSkipped means credentials were incomplete and nothing was sent.
	PostSkipped PostOutcome = iota
	PostSucceeded
	PostFailed
)

func (o PostOutcome) String() string {
	switch o {
	case PostSkipped:
		return "skipped"
	case PostSucceeded:
		return "succeeded"
	case PostFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type PostResult struct {
	Outcome  PostOutcome
	Message  string
	Response social.Response
	Err      error
}

// PostLocation posts the composed location message and then applies the
// result: a warning when credentials are missing, a notification on
// success, and a log record only on failure. It blocks on the network.
func (a *App) PostLocation(ctx context.Context) PostResult {
	result := a.postLocation(ctx)
	a.applyPostResult(ctx, result)
	return result
}

func (a *App) postLocation(ctx context.Context) PostResult {
	creds, err := social.LoadCredentials(a.store)
	if err != nil {
		a.logger.Warn("load credentials failed", logging.Field("error", err))
		creds = social.Credentials{}
	}
	if !creds.Complete() {
		return PostResult{Outcome: PostSkipped}
	}

	message := a.composer.Compose(ctx)
	poster, err := a.newPoster(creds)
	if err != nil {
		return PostResult{Outcome: PostFailed, Message: message, Err: err}
	}
	resp, err := poster.Post(ctx, message)
	if err != nil {
		return PostResult{Outcome: PostFailed, Message: message, Err: err}
	}
	return PostResult{Outcome: PostSucceeded, Message: message, Response: resp}
}

func (a *App) applyPostResult(ctx context.Context, result PostResult) {
	if a.metrics != nil {
		a.metrics.PostsTotal.WithLabelValues(result.Outcome.String()).Inc()
	}
	switch result.Outcome {
	case PostSkipped:
		a.notifier.Emit(ctx, TitleWarning, MissingCredentialsMessage)
	case PostSucceeded:
		a.diag.Record("app.PostLocation", "postTweet", result.Response)
		a.logger.Info("location posted", logging.Field("id", result.Response.ID))
		a.notifier.Emit(ctx, TitleTweeted, result.Message)
	case PostFailed:
		a.diag.Record("app.PostLocation", "postTweet", result.Err)
		a.logger.Warn("post location failed",
			logging.Field("error", result.Err),
			logging.Field("unauthorized", social.IsUnauthorized(result.Err)),
			logging.Field("canceled", errors.Is(result.Err, context.Canceled)),
		)
	}
}
