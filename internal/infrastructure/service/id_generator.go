package service

import "github.com/google/uuid"

// UUIDGenerator produces random v4 identifiers for new submissions.
type UUIDGenerator struct{}

// NewUUIDGenerator creates the generator.
func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

// NewID implements command.IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}
