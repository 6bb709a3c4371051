// Package docs registers the OpenAPI document served at /swagger. Keep it
// in step with the handler annotations.
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
        "/add": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Create a product from uploaded images and/or image links",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Create product",
                "parameters": [
                    {"type": "string", "description": "Product name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Title", "name": "title", "in": "formData"},
                    {"type": "string", "description": "Description", "name": "des", "in": "formData"},
                    {"type": "string", "description": "Rating", "name": "rating", "in": "formData"},
                    {"type": "string", "description": "Price", "name": "price", "in": "formData"},
                    {"type": "string", "description": "Weight", "name": "weight", "in": "formData"},
                    {"type": "string", "description": "Tag", "name": "tag", "in": "formData"},
                    {"type": "string", "description": "Category", "name": "category", "in": "formData"},
                    {"type": "string", "description": "JSON array of image URLs", "name": "linkImages", "in": "formData"},
                    {"type": "file", "description": "Product image (repeatable, max 5)", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "description": "Every non-empty category with its product count",
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "List categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/category/{category}": {
            "get": {
                "description": "Exact, case-sensitive match. Responds with a bare array.",
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Products by category",
                "parameters": [
                    {"type": "string", "description": "Category", "name": "category", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Product"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/del/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes the record, then its uploaded images",
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Delete product",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/edite-get/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Get product for editing",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/edite/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Sent fields overwrite, omitted fields are kept. New images replace the old list; links are appended.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Update product",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Product name", "name": "name", "in": "formData"},
                    {"type": "string", "description": "Title", "name": "title", "in": "formData"},
                    {"type": "string", "description": "Description", "name": "des", "in": "formData"},
                    {"type": "string", "description": "Rating", "name": "rating", "in": "formData"},
                    {"type": "string", "description": "Price", "name": "price", "in": "formData"},
                    {"type": "string", "description": "Weight", "name": "weight", "in": "formData"},
                    {"type": "string", "description": "Tag", "name": "tag", "in": "formData"},
                    {"type": "string", "description": "Category", "name": "category", "in": "formData"},
                    {"type": "string", "description": "JSON array of image URLs", "name": "linkImages", "in": "formData"},
                    {"type": "file", "description": "Replacement image (repeatable, max 5)", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/get": {
            "get": {
                "description": "All products, newest first unless sort=asc",
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "List products",
                "parameters": [
                    {"enum": ["asc", "desc"], "type": "string", "description": "Sort by creation time", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/product/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Get product",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/product/{id}/related": {
            "get": {
                "description": "Products in the same category as the given one, itself included",
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Related products",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/upload": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores one image without attaching it to a product",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Uploads"],
                "summary": "Upload image",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.CategorySummary": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "products": {"type": "integer"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "stack": {"type": "string"}
            }
        },
        "models.Product": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "attributes": {"type": "object", "additionalProperties": {"type": "string"}},
                "category": {"type": "string"},
                "createdAt": {"type": "string"},
                "des": {"type": "string"},
                "images": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string"},
                "price": {"type": "string"},
                "rating": {"type": "string"},
                "tag": {"type": "string"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"},
                "weight": {"type": "string"}
            }
        },
        "models.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"}
            }
        },
        "models.UploadResponse": {
            "type": "object",
            "properties": {
                "imageUrl": {"type": "string"},
                "message": {"type": "string"}
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
	Title:            "Product Catalog API",
	Description:      "Product records with uploaded, cloud-hosted and linked images.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
