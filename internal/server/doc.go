// Package server assembles the memberd HTTP API.
//
// # Request pipeline
//
// Every request passes through four stages before reaching a handler:
//
//  1. Request id and access logging
//  2. Token authentication (attaches a principal, or continues anonymous)
//  3. Access-rule enforcement against the route policy
//  4. The route handler itself
//
// # Routes
//
// Sign endpoints (public):
//
//	POST /v1/signin   exchange uid/password for a token
//	POST /v1/signup   create an account with the baseline role
//
// User resource (collection is admin-only, items need the baseline role):
//
//	GET    /v1/users
//	GET    /v1/users/{id}
//	PUT    /v1/users/{id}
//	DELETE /v1/users/{id}
//
// Demonstration endpoints (public):
//
//	GET /helloworld/string
//	GET /helloworld/json
//	GET /exception/entrypoint
//	GET /exception/accessdenied
//
// # Responses
//
// All API responses share the CommonResult envelope: a success flag, a
// stable numeric code, and a message localized from the lang query
// parameter or the Accept-Language header. Both access denials render
// HTTP 401; the codes -1002 and -1003 distinguish missing credentials
// from insufficient ones.
package server
