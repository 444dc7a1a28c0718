package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Eventhood/Eventhood-backend/internal/models"
	"github.com/Eventhood/Eventhood-backend/internal/store"
)

// TokenVerifier checks a bearer token and returns the subject uuid.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Geocoder resolves free-text addresses into structured locations.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.EventLocation, error)
}

// Mailer sends templated transactional mail.
type Mailer interface {
	Send(ctx context.Context, template, to string, variables map[string]string) error
}

// bearerToken pulls the token out of the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}

// objectID parses a path parameter as a Mongo ObjectId, responding 400 when
// it is malformed.
func objectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return primitive.NilObjectID, false
	}
	return id, true
}

// boolQuery reads an optional boolean query parameter. Absent or unparseable
// values mean "no constraint".
func boolQuery(c *gin.Context, name string) *bool {
	v, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// storeErr maps store sentinel errors onto the response contract.
func storeErr(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundMsg})
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "there was a problem handling the request"})
	}
}

// notify fires a best-effort mail send in the background. Failures are
// logged and never affect the response being prepared.
func notify(log zerolog.Logger, mailer Mailer, template, to string, vars map[string]string) {
	go func() {
		if err := mailer.Send(context.Background(), template, to, vars); err != nil {
			log.Error().Err(err).Str("template", template).Str("to", to).Msg("notification failed")
		}
	}()
}
