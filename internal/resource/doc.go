// Package resource caps shard worker concurrency and tracks arena memory.
package resource
