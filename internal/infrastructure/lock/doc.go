// Package lock provides shared.Locker implementations: an in-process keyed
// locker for single-instance deployments and tests, and a Redis locker built
// on redsync for deployments with more than one orchestrator instance.
package lock
