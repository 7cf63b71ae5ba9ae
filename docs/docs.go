// Package docs registers the OpenAPI description served at /swagger. Keep it
// in step with the handler annotations, or regenerate it with `swag init -g
// cmd/api/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/users": {
            "get": {"tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["users"], "summary": "Create a user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/users/me": {
            "get": {"tags": ["users"], "summary": "Get the current user", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/users/{id}": {
            "get": {"tags": ["users"], "summary": "Get user by ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["users"], "summary": "Update a user", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/groups": {
            "get": {"tags": ["groups"], "summary": "List my groups", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["groups"], "summary": "Create a group", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/groups/{id}": {
            "get": {"tags": ["groups"], "summary": "Get group with members", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["groups"], "summary": "Update a group", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["groups"], "summary": "Delete a group", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/groups/{id}/members": {
            "get": {"tags": ["groups"], "summary": "List group members", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["groups"], "summary": "Invite a member", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/groups/{id}/members/{userId}": {
            "put": {"tags": ["groups"], "summary": "Change a member's role or status", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["groups"], "summary": "Remove a member or leave a group", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/groups/{id}/accept": {
            "post": {"tags": ["groups"], "summary": "Accept a group invitation", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/groups/{id}/balances": {
            "get": {"tags": ["balances"], "summary": "Group balances", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/groups/{id}/debts": {
            "get": {"tags": ["balances"], "summary": "Simplified debts", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/groups/{id}/settlements": {
            "get": {"tags": ["settlements"], "summary": "List group settlements", "responses": {"200": {"description": "OK"}}}
        },
        "/expenses": {
            "post": {"tags": ["expenses"], "summary": "Create a new expense", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "422": {"description": "Validation failed"}}}
        },
        "/expenses/preview": {
            "post": {"tags": ["expenses"], "summary": "Preview a split", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/expenses/{id}": {
            "get": {"tags": ["expenses"], "summary": "Get expense by ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["expenses"], "summary": "Replace an expense", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}, "422": {"description": "Validation failed"}}},
            "delete": {"tags": ["expenses"], "summary": "Delete an expense", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/expenses/group/{groupId}": {
            "get": {"tags": ["expenses"], "summary": "List group expenses", "responses": {"200": {"description": "OK"}}}
        },
        "/settlements": {
            "get": {"tags": ["settlements"], "summary": "List my settlements", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["settlements"], "summary": "Request a settlement", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/settlements/preview": {
            "post": {"tags": ["settlements"], "summary": "Preview a settlement", "responses": {"200": {"description": "OK"}}}
        },
        "/settlements/{id}": {
            "get": {"tags": ["settlements"], "summary": "Get settlement by ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/settlements/{id}/pay": {
            "post": {"tags": ["settlements"], "summary": "Mark a settlement as paid", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/settlements/{id}/confirm": {
            "post": {"tags": ["settlements"], "summary": "Confirm a settlement", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/settlements/{id}/reject": {
            "post": {"tags": ["settlements"], "summary": "Reject a settlement", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/notifications": {
            "get": {"tags": ["notifications"], "summary": "List my notifications", "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/unread-count": {
            "get": {"tags": ["notifications"], "summary": "Count my unread notifications", "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/{id}/read": {
            "post": {"tags": ["notifications"], "summary": "Mark a notification as read", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/notifications/read-all": {
            "post": {"tags": ["notifications"], "summary": "Mark all my notifications as read", "responses": {"200": {"description": "OK"}}}
        },
        "/events": {
            "get": {"tags": ["events"], "summary": "Recent activity", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "MoMo Split API",
	Description:      "Shared expenses, balances and mobile-money settlements for groups.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
