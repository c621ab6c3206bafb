package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ThijsRay/podimo/internal/podimo"
)

// respondFeedError maps a client-layer error onto the plain-text responses
// the feed endpoints expose. Validation and not-found problems get a
// specific status; authentication and upstream failures stay opaque to the
// caller, with the full detail only logged here.
func (h *Handlers) respondFeedError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, podimo.ErrInvalidInput):
		c.String(http.StatusBadRequest, "%s\n", err.Error())
	case errors.Is(err, podimo.ErrPodcastNotFound):
		c.String(http.StatusNotFound, "Podcast not found. Are you sure you have the correct ID?\n")
	case errors.Is(err, podimo.ErrAuthFailed), errors.Is(err, podimo.ErrNoAnonymousToken):
		log.Printf("authentication failed: %v", err)
		c.String(http.StatusUnauthorized,
			"401 Unauthorized.\nYou need to login with the correct credentials for Podimo.\n\n%s", h.example())
	default:
		log.Printf("error while fetching podcasts: %v", err)
		c.String(http.StatusInternalServerError, "Something went wrong while fetching the podcasts\n")
	}
}
