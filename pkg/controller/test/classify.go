package test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sastctl/sastctl/pkg/api"
	"github.com/sastctl/sastctl/pkg/apperr"
	"github.com/sirupsen/logrus"
)

// statusCoder matches foreign errors that carry an HTTP status code without
// the full service error shape.
type statusCoder interface {
	StatusCode() int
}

// classify normalizes an error caught during orchestration. The most
// specific classification wins: a service error, then an already classified
// error, then a bare status-carrying error, then an opaque wrap. Every path
// logs the request id, status, and message before returning.
func (c *Controller) classify(logE *logrus.Entry, err error) error {
	serviceErr := &api.ServiceError{}
	if errors.As(err, &serviceErr) {
		msg := serviceErr.Message
		if msg == "" {
			msg = serviceErr.StatusText
		}
		if serviceErr.Unauthorized() {
			msg = "Unauthorized: " + msg
		}
		logE.WithFields(logrus.Fields{
			"status_code": serviceErr.StatusCode,
			"api":         serviceErr.APIName,
		}).WithError(err).Debug("classify a service error")
		return apperr.New(apperr.CodeFailedToRun, msg)
	}

	classified := &apperr.Error{}
	if errors.As(err, &classified) {
		logE.WithField("code", string(classified.Code)).WithError(err).Debug("pass through a classified error")
		return classified
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code == http.StatusUnauthorized || code == http.StatusForbidden {
			logE.WithField("status_code", code).WithError(err).Debug("classify an unauthorized error")
			return apperr.New(apperr.CodeFailedToRun, err.Error())
		}
	}

	logE.WithError(err).Debug("wrap an unclassified error")
	return fmt.Errorf("run a test: %w", err)
}
