package client

import "net/http"

// Endpoint identifies a VaultAPI route.
type Endpoint int

const (
	Health Endpoint = iota
	GetSecret
	GetSecrets
	GetTable
	ListTables
	PutSecret
	DeleteSecret
	CreateTable
)

var endpoints = map[Endpoint]struct {
	name   string
	method string
}{
	Health:       {"health", http.MethodGet},
	GetSecret:    {"get-secret", http.MethodGet},
	GetSecrets:   {"get-secrets", http.MethodGet},
	GetTable:     {"get-table", http.MethodGet},
	ListTables:   {"list-tables", http.MethodGet},
	PutSecret:    {"put-secret", http.MethodPut},
	DeleteSecret: {"delete-secret", http.MethodDelete},
	CreateTable:  {"create-table", http.MethodPost},
}

// String returns the route name, which doubles as the operation name in logs.
func (e Endpoint) String() string {
	if ep, ok := endpoints[e]; ok {
		return ep.name
	}
	return "unknown"
}

// Path returns the route path relative to the server URL.
func (e Endpoint) Path() string {
	return "/" + e.String()
}

// Method returns the HTTP method of the route.
func (e Endpoint) Method() string {
	if ep, ok := endpoints[e]; ok {
		return ep.method
	}
	return http.MethodGet
}

// Valid reports whether e is a known route.
func (e Endpoint) Valid() bool {
	_, ok := endpoints[e]
	return ok
}
