package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// randomSuffix returns 9 random lowercase hex characters
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// generateQueryID builds ids of the form query_<unixMillis>_<suffix>
func generateQueryID(now time.Time) string {
	return fmt.Sprintf("query_%d_%s", now.UnixMilli(), randomSuffix())
}

// generateTicketID returns a 9 character upper-case ticket reference
func generateTicketID() string {
	return strings.ToUpper(randomSuffix())
}

// generateTemplateID uses the creation time in milliseconds
func generateTemplateID(now time.Time) string {
	return fmt.Sprintf("%d", now.UnixMilli())
}
