package config

import (
	"fmt"
	"time"
)

// ValidateConcurrency validates a parallelism setting
func ValidateConcurrency(concurrency int, name string) error {
	if concurrency <= 0 {
		return fmt.Errorf("%s concurrency must be positive", name)
	}
	if concurrency > 100 {
		return fmt.Errorf("%s concurrency too high (max 100)", name)
	}
	return nil
}

// ValidateAttempts validates a polling attempt budget
func ValidateAttempts(attempts int) error {
	if attempts <= 0 {
		return fmt.Errorf("polling attempts must be positive")
	}
	if attempts > 100 {
		return fmt.Errorf("polling attempts too high (max 100)")
	}
	return nil
}

// ValidatePollInterval validates the wait between status queries
func ValidatePollInterval(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if interval > 5*time.Minute {
		return fmt.Errorf("poll interval too high (max 5 minutes)")
	}
	return nil
}
