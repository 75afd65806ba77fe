// Package registry routes a classified turn to the handler registered for its intent.
package registry
