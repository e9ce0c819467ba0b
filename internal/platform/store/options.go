package store

import (
	"errors"

	"steakfeed/internal/platform/logger"
)

// Option adjusts a Store before Open dials anything
type Option func(*Store) error

// WithLogger is the logger handed to tracers and boot retries
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error { s.Log = log; return nil }
}

// WithDynamo injects a DynamoDB client so Open does not load AWS config
func WithDynamo(d Dynamo) Option {
	return func(s *Store) error {
		if d == nil {
			return errors.New("store: WithDynamo(nil)")
		}
		s.DDB = d
		return nil
	}
}

// WithRedis injects a redis client so Open does not dial
func WithRedis(r Redis) Option {
	return func(s *Store) error {
		if r == nil {
			return errors.New("store: WithRedis(nil)")
		}
		s.RDB = r
		return nil
	}
}
