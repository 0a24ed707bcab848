package instagram

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Strategy is one self-contained method of retrieving media through a
// specific unofficial surface. Attempt never returns an error: any network or
// parse failure is swallowed, logged, and reported as zero items so the
// orchestrator can move on to the next surface.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, req *Request) []Media
}

// miss logs a strategy failure and returns nil. The reason stays in the logs;
// callers only ever see the empty result.
func miss(log *logrus.Entry, strategy string, req *Request, err error) []Media {
	log.WithFields(logrus.Fields{
		"strategy":  strategy,
		"shortcode": req.Shortcode,
		"username":  req.Username,
	}).WithError(err).Debug("strategy yielded nothing")
	return nil
}
