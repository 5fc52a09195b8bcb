package redis

import "fmt"

// Key prefix for all client session data
const keyPrefix = "cricket"

// sessionKey returns the Redis key of the hash holding a namespace's session
func sessionKey(namespace string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, namespace)
}
