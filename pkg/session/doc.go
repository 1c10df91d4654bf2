/*
Package session manages named observed trees shared between goroutines.

An observe.Observer is not safe for concurrent use. The Manager keeps one lock
per tree and runs every access inside WithLock, so handlers fired by a write
execute in the same critical section as the write itself.
*/
package session
