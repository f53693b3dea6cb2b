// Package subscriber consumes pipeline pub/sub topics and feeds raw messages
// to the event router.
package subscriber
