package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"

	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
)

// discordError converts a REST failure into an application error.
// 403 becomes permission_denied; anything else is internal.
func discordError(err error, message string) *apperr.Error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil &&
		restErr.Response.StatusCode == http.StatusForbidden {
		return apperr.WrapWithCode(err, apperr.CodePermissionDenied, message)
	}
	return apperr.WrapWithCode(err, apperr.CodeInternal, message)
}
