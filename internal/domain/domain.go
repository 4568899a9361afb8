// Package domain holds the persisted records of the summarizer service.
package domain
