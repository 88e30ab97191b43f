// Package docs holds the Swagger 2.0 document served at /swagger.
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
    "paths": {
        "/api/auth/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.signInResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [
                    {"description": "Registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signUpRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/auth/signout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/auth/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/auth/username": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current username",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.usernameResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/public/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List categories",
                "parameters": [
                    {"type": "integer", "description": "0-based page number", "name": "pageNumber", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "pageSize", "in": "query"},
                    {"type": "string", "description": "Sort field (categoryId, categoryName)", "name": "sortBy", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "sortOrder", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.categoryPageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/public/categories/{categoryId}/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List the products of a category",
                "parameters": [
                    {"type": "integer", "description": "Category id", "name": "categoryId", "in": "path", "required": true},
                    {"type": "integer", "description": "0-based page number", "name": "pageNumber", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "pageSize", "in": "query"},
                    {"type": "string", "description": "Sort field, defaults to price", "name": "sortBy", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "sortOrder", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productPageResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/public/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "parameters": [
                    {"type": "integer", "description": "0-based page number", "name": "pageNumber", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "pageSize", "in": "query"},
                    {"type": "string", "description": "Sort field (productId, productName, price, discount, specialPrice, quantity)", "name": "sortBy", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "sortOrder", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productPageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/public/products/keyword/{keyword}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Search products by name",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive name fragment", "name": "keyword", "in": "path", "required": true},
                    {"type": "integer", "description": "0-based page number", "name": "pageNumber", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "pageSize", "in": "query"},
                    {"type": "string", "description": "Sort field", "name": "sortBy", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "sortOrder", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productPageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/admin/categories": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [
                    {"description": "Category", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.categoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.categoryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/admin/categories/{categoryId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Rename a category",
                "parameters": [
                    {"type": "integer", "description": "Category id", "name": "categoryId", "in": "path", "required": true},
                    {"description": "Category", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.categoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.categoryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Delete a category and its products",
                "parameters": [
                    {"type": "integer", "description": "Category id", "name": "categoryId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.categoryResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/admin/categories/{categoryId}/product": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Add a product to a category",
                "parameters": [
                    {"type": "integer", "description": "Category id", "name": "categoryId", "in": "path", "required": true},
                    {"description": "Product", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.productRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/admin/products/{productId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Update a product",
                "parameters": [
                    {"type": "integer", "description": "Product id", "name": "productId", "in": "path", "required": true},
                    {"description": "Product", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.productRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Delete a product",
                "parameters": [
                    {"type": "integer", "description": "Product id", "name": "productId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/admin/products/{productId}/image": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Replace a product image",
                "parameters": [
                    {"type": "integer", "description": "Product id", "name": "productId", "in": "path", "required": true},
                    {"type": "file", "description": "Image file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handler.categoryPageResponse": {
            "type": "object",
            "properties": {
                "content": {"type": "array", "items": {"$ref": "#/definitions/handler.categoryResponse"}},
                "lastPage": {"type": "boolean"},
                "pageNumber": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalElements": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "handler.categoryRequest": {
            "type": "object",
            "required": ["categoryName"],
            "properties": {
                "categoryName": {"type": "string"}
            }
        },
        "handler.categoryResponse": {
            "type": "object",
            "properties": {
                "categoryId": {"type": "integer"},
                "categoryName": {"type": "string"}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.productPageResponse": {
            "type": "object",
            "properties": {
                "content": {"type": "array", "items": {"$ref": "#/definitions/handler.productResponse"}},
                "lastPage": {"type": "boolean"},
                "pageNumber": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalElements": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "handler.productRequest": {
            "type": "object",
            "required": ["description", "productName"],
            "properties": {
                "description": {"type": "string"},
                "discount": {"type": "number", "maximum": 100, "minimum": 0},
                "image": {"type": "string"},
                "price": {"type": "number", "minimum": 0},
                "productName": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 0}
            }
        },
        "handler.productResponse": {
            "type": "object",
            "properties": {
                "categoryId": {"type": "integer"},
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "discount": {"type": "number"},
                "image": {"type": "string"},
                "price": {"type": "number"},
                "productId": {"type": "integer"},
                "productName": {"type": "string"},
                "quantity": {"type": "integer"},
                "sellerId": {"type": "integer"},
                "specialPrice": {"type": "number"},
                "updatedAt": {"type": "string"}
            }
        },
        "handler.signInRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.signInResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "token": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.signUpRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string", "maxLength": 50},
                "password": {"type": "string", "maxLength": 40, "minLength": 6},
                "role": {"type": "array", "items": {"type": "string"}},
                "username": {"type": "string", "maxLength": 20, "minLength": 3}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "username": {"type": "string"}
            }
        },
        "handler.usernameResponse": {
            "type": "object",
            "properties": {
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Catalog Service API",
	Description:      "Storefront catalog: authentication, categories and products.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
