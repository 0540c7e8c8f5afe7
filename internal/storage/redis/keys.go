package redis

import (
	"fmt"
	"strings"

	"github.com/mkelsey/devportal/internal/model"
)

// Key prefix for all identity data
const keyPrefix = "devportal"

// accountKey returns the Redis key for an Account
func accountKey(id model.IdentityID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> account id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, strings.ToLower(email))
}
