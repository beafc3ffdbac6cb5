package http

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey contextKey = "dryRun"
)

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)

		// Call the next handler with the modified context.
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// slackVerifyMiddleware validates the X-Slack-Signature header on incoming
// slash command requests. Verification is skipped when no signing secret is
// configured, which keeps local development simple.
func (s *Server) slackVerifyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := s.Cfg.Slack.SigningSecret
		if secret == "" {
			next.ServeHTTP(w, r)
			return
		}

		verifier, err := slack.NewSecretsVerifier(r.Header, secret)
		if err != nil {
			log.Warn("Failed to create Slack secrets verifier", "error", err)
			http.Error(w, "Invalid Slack signature headers", http.StatusUnauthorized)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		// The handler still needs the body after the verifier consumed it.
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		if _, err := verifier.Write(bodyBytes); err != nil {
			http.Error(w, "Failed to verify request", http.StatusInternalServerError)
			return
		}
		if err := verifier.Ensure(); err != nil {
			log.Warn("Rejected Slack request with bad signature", "error", err)
			http.Error(w, "Invalid Slack signature", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
