// Package httpapp provides the HTTP API for Quill.
//
//	@title						Quill API
//	@version					1.0
//	@description				A small blog: posts written in markdown, comments, photo uploads and a monthly archive.
//	@description
//	@description				## Authentication
//	@description
//	@description				Log in with `POST /sessions` and send the returned token on every protected request:
//	@description				```bash
//	@description				curl -X POST /sessions -d '{"email":"admin@example.com","password":"..."}'
//	@description				# Returns: {"id":1,"name":"admin","is_admin":true,"token":"TOKEN","avatar":"..."}
//	@description				curl -X POST /posts -H "Authorization: Bearer TOKEN" -d '{...}'
//	@description				```
//	@description				`DELETE /sessions` ends the session; the token is rejected afterwards.
//	@description
//	@description				## Errors
//	@description				Failures return `{"error": "...", "kind": "..."}` where kind is one of
//	@description				not_found, unauthenticated, invalid_credential, forbidden, conflict,
//	@description				validation_error, rate_limited, method_not_allowed or internal.
//
//	@contact.name				Quill
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token from POST /sessions
//
//	@tag.name					Sessions
//	@tag.description			Log in and out.
//
//	@tag.name					Users
//	@tag.description			Reader registration. Listing users requires the admin role.
//
//	@tag.name					Posts
//	@tag.description			Markdown posts filed under categories. Writes require the admin role.
//
//	@tag.name					Comments
//	@tag.description			Comments on posts. Any signed-in user can comment.
//
//	@tag.name					Photos
//	@tag.description			Uploaded files that posts can attach.
//
//	@tag.name					Archive
//	@tag.description			Posts grouped by month of creation.
package httpapp
