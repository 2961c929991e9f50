/*
Package session implements session management and persistence orchestration.

It serializes access to a panel session across goroutines and, with a
distributed locker, across processes sharing one store.
*/
package session
