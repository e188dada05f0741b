// Package docs especificación OpenAPI de la API. Regenerar con: swag init -g cmd/api/main.go
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
        "/api/v1/history/{entity}/{id}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "request | quote | job | invoice",
                        "name": "entity",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID de la entidad",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.StatusHistoryResponse"
                            }
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Historial de estados",
                "tags": [
                    "workflow"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/invoices/{id}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la factura",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Obtener factura",
                "tags": [
                    "invoices"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/invoices/{id}/payments": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la factura",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Abono",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.RecordPaymentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Registrar abono",
                "tags": [
                    "invoices"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/invoices/{id}/sync": {
            "put": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la factura",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Estado",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceSyncRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Marcar sincronización",
                "tags": [
                    "invoices"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/jobs/{id}/crew": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del trabajo",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Cuadrilla",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AssignRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AssignmentResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Asignar cuadrilla",
                "tags": [
                    "jobs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/jobs/{id}/feasibility/{assignee}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del trabajo",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID de cuadrilla o perfil",
                        "name": "assignee",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FeasibilityResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Factibilidad de asignación",
                "tags": [
                    "jobs"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/jobs/{id}/invoice": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del trabajo",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Impuestos y descuentos",
                        "name": "body",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/dto.GenerateInvoiceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Generar factura",
                "tags": [
                    "jobs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/jobs/{id}/rep": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del trabajo",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Vendedor",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AssignRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AssignmentResponse"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Asignar vendedor",
                "tags": [
                    "jobs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/jobs/{id}/schedule": {
            "put": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del trabajo",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fecha y ventana",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ScheduleJobRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JobResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Programar trabajo",
                "tags": [
                    "jobs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/jobs/{id}/yard": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID del trabajo",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.YardStatusResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Estado de patio",
                "tags": [
                    "jobs"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/quotes": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Cotización",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateQuoteRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.QuoteResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Crear cotización",
                "tags": [
                    "quotes"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/quotes/{id}/approval": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cotización",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ApprovalEvaluationResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Evaluar aprobación",
                "tags": [
                    "quotes"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/quotes/{id}/approve": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cotización",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Motivo",
                        "name": "body",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/dto.ApprovalDecisionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.QuoteResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Aprobar cotización",
                "tags": [
                    "quotes"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/quotes/{id}/convert": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cotización",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Firma y orden de compra",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ConvertToJobRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ConversionResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Convertir cotización en trabajo",
                "tags": [
                    "quotes"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/quotes/{id}/pricing": {
            "put": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cotización",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Precios",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateQuotePricingRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.QuoteResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Actualizar precios",
                "tags": [
                    "quotes"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/quotes/{id}/reject": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la cotización",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Motivo",
                        "name": "body",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/dto.ApprovalDecisionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.QuoteResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Rechazar cotización",
                "tags": [
                    "quotes"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/requests": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Solicitud",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateRequestRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.RequestResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Crear solicitud",
                "tags": [
                    "requests"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/requests/{id}/assessment": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la solicitud",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Vendedor y fecha",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ScheduleAssessmentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ScheduleAssessmentResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Programar evaluación",
                "tags": [
                    "requests"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/requests/{id}/convert-to-job": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la solicitud",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Monto del contrato",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ConvertToJobRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ConversionResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Convertir solicitud en trabajo",
                "tags": [
                    "requests"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/requests/{id}/convert-to-quote": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la solicitud",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Precios",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ConvertRequestToQuoteRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ConversionResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Convertir solicitud en cotización",
                "tags": [
                    "requests"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/requests/{id}/feasibility/{rep}": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID de la solicitud",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID del vendedor",
                        "name": "rep",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Fecha RFC3339 (por defecto la programada)",
                        "name": "date",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FeasibilityResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Factibilidad de evaluación",
                "tags": [
                    "requests"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/transitions": {
            "post": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Versión esperada",
                        "name": "If-Match",
                        "in": "header",
                        "required": false
                    },
                    {
                        "description": "Transición",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.TransitionCommand"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.TransitionResult"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Aplicar transición",
                "tags": [
                    "workflow"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/api/v1/workflow/{entity}/next": {
            "get": {
                "security": [
                    {
                        "Bearer": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "request | quote | job | invoice",
                        "name": "entity",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Estado actual",
                        "name": "status",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.StatusOption"
                            }
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                },
                "summary": "Estados siguientes",
                "tags": [
                    "workflow"
                ],
                "produces": [
                    "application/json"
                ]
            }
        }
    },
    "definitions": {
        "dto.AddressDTO": {
            "type": "object",
            "properties": {
                "street": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "zip": {
                    "type": "string"
                }
            }
        },
        "dto.ApprovalDecisionRequest": {
            "type": "object",
            "properties": {
                "reason": {
                    "type": "string"
                },
                "expected_version": {
                    "type": "integer"
                }
            }
        },
        "dto.ApprovalEvaluationResponse": {
            "type": "object",
            "properties": {
                "quote_id": {
                    "type": "string"
                },
                "required": {
                    "type": "boolean"
                },
                "reasons": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "approval_status": {
                    "type": "string"
                }
            }
        },
        "dto.AssignRequest": {
            "type": "object",
            "properties": {
                "assignee_id": {
                    "type": "string"
                },
                "override": {
                    "type": "boolean"
                },
                "expected_version": {
                    "type": "integer"
                }
            }
        },
        "dto.AssignmentResponse": {
            "type": "object",
            "properties": {
                "check": {
                    "$ref": "#/definitions/dto.FeasibilityResponse"
                },
                "overridden": {
                    "type": "boolean"
                },
                "version": {
                    "type": "integer"
                }
            }
        },
        "dto.ContactDTO": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                }
            }
        },
        "dto.ConversionResponse": {
            "type": "object",
            "properties": {
                "source_type": {
                    "type": "string"
                },
                "source_id": {
                    "type": "string"
                },
                "target_type": {
                    "type": "string"
                },
                "target_id": {
                    "type": "string"
                }
            }
        },
        "dto.ConvertRequestToQuoteRequest": {
            "type": "object",
            "properties": {
                "scope_summary": {
                    "type": "string"
                },
                "linear_feet": {
                    "type": "number"
                },
                "pricing": {
                    "$ref": "#/definitions/dto.PricingInput"
                },
                "valid_until": {
                    "type": "string",
                    "format": "date-time"
                },
                "payment_terms": {
                    "type": "string"
                },
                "deposit_percent": {
                    "type": "number"
                },
                "expected_version": {
                    "type": "integer"
                }
            }
        },
        "dto.ConvertToJobRequest": {
            "type": "object",
            "properties": {
                "contract_total": {
                    "type": "number"
                },
                "signature": {
                    "type": "string"
                },
                "po_number": {
                    "type": "string"
                },
                "expected_version": {
                    "type": "integer"
                }
            }
        },
        "dto.CreateQuoteRequest": {
            "type": "object",
            "properties": {
                "request_id": {
                    "type": "string"
                },
                "client_id": {
                    "type": "string"
                },
                "territory_id": {
                    "type": "string"
                },
                "product_type": {
                    "type": "string"
                },
                "linear_feet": {
                    "type": "number"
                },
                "scope_summary": {
                    "type": "string"
                },
                "pricing": {
                    "$ref": "#/definitions/dto.PricingInput"
                },
                "valid_until": {
                    "type": "string",
                    "format": "date-time"
                },
                "payment_terms": {
                    "type": "string"
                },
                "deposit_percent": {
                    "type": "number"
                }
            }
        },
        "dto.CreateRequestRequest": {
            "type": "object",
            "properties": {
                "project_id": {
                    "type": "string"
                },
                "client_id": {
                    "type": "string"
                },
                "community_id": {
                    "type": "string"
                },
                "property_id": {
                    "type": "string"
                },
                "contact": {
                    "$ref": "#/definitions/dto.ContactDTO"
                },
                "address": {
                    "$ref": "#/definitions/dto.AddressDTO"
                },
                "source": {
                    "type": "string"
                },
                "request_type": {
                    "type": "string"
                },
                "product_type": {
                    "type": "string"
                },
                "linear_feet_estimate": {
                    "type": "number"
                },
                "territory_id": {
                    "type": "string"
                },
                "priority": {
                    "type": "string"
                },
                "assessment_required": {
                    "type": "boolean"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "reasons": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "dto.FeasibilityResponse": {
            "type": "object",
            "properties": {
                "target_type": {
                    "type": "string"
                },
                "target_id": {
                    "type": "string"
                },
                "assignee_id": {
                    "type": "string"
                },
                "assignee_kind": {
                    "type": "string"
                },
                "ok": {
                    "type": "boolean"
                },
                "reason": {
                    "type": "string"
                },
                "detail": {
                    "type": "string"
                }
            }
        },
        "dto.GenerateInvoiceRequest": {
            "type": "object",
            "properties": {
                "subtotal": {
                    "type": "number"
                },
                "tax_amount": {
                    "type": "number"
                },
                "discount_amount": {
                    "type": "number"
                },
                "due_days": {
                    "type": "integer"
                }
            }
        },
        "dto.InvoiceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "job_id": {
                    "type": "string"
                },
                "client_id": {
                    "type": "string"
                },
                "invoice_number": {
                    "type": "string"
                },
                "subtotal": {
                    "type": "number"
                },
                "tax_amount": {
                    "type": "number"
                },
                "discount_amount": {
                    "type": "number"
                },
                "total": {
                    "type": "number"
                },
                "amount_paid": {
                    "type": "number"
                },
                "balance_due": {
                    "type": "number"
                },
                "invoice_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "due_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "sync_status": {
                    "type": "string"
                },
                "synced_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "sync_error": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "version": {
                    "type": "integer"
                },
                "status_changed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "payments": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.PaymentResponse"
                    }
                }
            }
        },
        "dto.InvoiceSyncRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "dto.JobPhasesResponse": {
            "type": "object",
            "properties": {
                "ready_for_yard_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "picking_started_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "picking_completed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "staging_completed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "loaded_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "work_started_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "work_completed_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.JobResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "quote_id": {
                    "type": "string"
                },
                "request_id": {
                    "type": "string"
                },
                "client_id": {
                    "type": "string"
                },
                "kind": {
                    "type": "string"
                },
                "scheduled_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "time_window": {
                    "type": "string"
                },
                "estimated_hours": {
                    "type": "number"
                },
                "crew_id": {
                    "type": "string"
                },
                "rep_id": {
                    "type": "string"
                },
                "territory_id": {
                    "type": "string"
                },
                "product_type": {
                    "type": "string"
                },
                "linear_feet": {
                    "type": "number"
                },
                "contract_total": {
                    "type": "number"
                },
                "phases": {
                    "$ref": "#/definitions/dto.JobPhasesResponse"
                },
                "invoice_id": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "version": {
                    "type": "integer"
                },
                "status_changed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.PaymentResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "amount": {
                    "type": "number"
                },
                "method": {
                    "type": "string"
                },
                "reference": {
                    "type": "string"
                },
                "received_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "recorded_by": {
                    "type": "string"
                }
            }
        },
        "dto.PricingInput": {
            "type": "object",
            "properties": {
                "subtotal": {
                    "type": "number"
                },
                "tax_amount": {
                    "type": "number"
                },
                "discount_amount": {
                    "type": "number"
                },
                "cost": {
                    "type": "number"
                }
            }
        },
        "dto.QuoteResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "request_id": {
                    "type": "string"
                },
                "client_id": {
                    "type": "string"
                },
                "territory_id": {
                    "type": "string"
                },
                "product_type": {
                    "type": "string"
                },
                "linear_feet": {
                    "type": "number"
                },
                "scope_summary": {
                    "type": "string"
                },
                "subtotal": {
                    "type": "number"
                },
                "tax_amount": {
                    "type": "number"
                },
                "discount_amount": {
                    "type": "number"
                },
                "total": {
                    "type": "number"
                },
                "cost": {
                    "type": "number"
                },
                "margin_percent": {
                    "type": "number"
                },
                "discount_percent": {
                    "type": "number"
                },
                "valid_until": {
                    "type": "string",
                    "format": "date-time"
                },
                "payment_terms": {
                    "type": "string"
                },
                "deposit_percent": {
                    "type": "number"
                },
                "requires_approval": {
                    "type": "boolean"
                },
                "approval_status": {
                    "type": "string"
                },
                "approved_by": {
                    "type": "string"
                },
                "approved_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "approval_reason": {
                    "type": "string"
                },
                "sent_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "client_approved_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "converted_to_job_id": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "version": {
                    "type": "integer"
                },
                "status_changed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.RecordPaymentRequest": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "number"
                },
                "method": {
                    "type": "string"
                },
                "reference": {
                    "type": "string"
                },
                "received_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "expected_version": {
                    "type": "integer"
                }
            }
        },
        "dto.RequestResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "project_id": {
                    "type": "string"
                },
                "client_id": {
                    "type": "string"
                },
                "community_id": {
                    "type": "string"
                },
                "property_id": {
                    "type": "string"
                },
                "contact": {
                    "$ref": "#/definitions/dto.ContactDTO"
                },
                "address": {
                    "$ref": "#/definitions/dto.AddressDTO"
                },
                "source": {
                    "type": "string"
                },
                "request_type": {
                    "type": "string"
                },
                "product_type": {
                    "type": "string"
                },
                "linear_feet_estimate": {
                    "type": "number"
                },
                "territory_id": {
                    "type": "string"
                },
                "priority": {
                    "type": "string"
                },
                "assessment_required": {
                    "type": "boolean"
                },
                "assessment_scheduled_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "assessment_completed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "assessment_rep_id": {
                    "type": "string"
                },
                "assessment_notes": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "converted_to_quote_id": {
                    "type": "string"
                },
                "converted_to_job_id": {
                    "type": "string"
                },
                "version": {
                    "type": "integer"
                },
                "status_changed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.ScheduleAssessmentRequest": {
            "type": "object",
            "properties": {
                "rep_id": {
                    "type": "string"
                },
                "scheduled_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "override": {
                    "type": "boolean"
                },
                "expected_version": {
                    "type": "integer"
                }
            }
        },
        "dto.ScheduleAssessmentResponse": {
            "type": "object",
            "properties": {
                "request": {
                    "$ref": "#/definitions/dto.RequestResponse"
                },
                "check": {
                    "$ref": "#/definitions/dto.FeasibilityResponse"
                },
                "overridden": {
                    "type": "boolean"
                }
            }
        },
        "dto.ScheduleJobRequest": {
            "type": "object",
            "properties": {
                "scheduled_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "time_window": {
                    "type": "string"
                },
                "estimated_hours": {
                    "type": "number"
                },
                "expected_version": {
                    "type": "integer"
                },
                "override": {
                    "type": "boolean"
                }
            }
        },
        "dto.StatusHistoryResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "sequence": {
                    "type": "integer"
                },
                "entity_type": {
                    "type": "string"
                },
                "entity_id": {
                    "type": "string"
                },
                "from_status": {
                    "type": "string"
                },
                "to_status": {
                    "type": "string"
                },
                "changed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "actor_id": {
                    "type": "string"
                },
                "note": {
                    "type": "string"
                }
            }
        },
        "dto.StatusOption": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "reopen": {
                    "type": "boolean"
                }
            }
        },
        "dto.TransitionCommand": {
            "type": "object",
            "properties": {
                "entity_type": {
                    "type": "string"
                },
                "entity_id": {
                    "type": "string"
                },
                "to_status": {
                    "type": "string"
                },
                "note": {
                    "type": "string"
                },
                "expected_version": {
                    "type": "integer"
                },
                "occurred_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.TransitionResult": {
            "type": "object",
            "properties": {
                "entity_type": {
                    "type": "string"
                },
                "entity_id": {
                    "type": "string"
                },
                "from_status": {
                    "type": "string"
                },
                "to_status": {
                    "type": "string"
                },
                "version": {
                    "type": "integer"
                },
                "changed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "history_id": {
                    "type": "string"
                },
                "sequence": {
                    "type": "integer"
                }
            }
        },
        "dto.UpdateQuotePricingRequest": {
            "type": "object",
            "properties": {
                "pricing": {
                    "$ref": "#/definitions/dto.PricingInput"
                },
                "expected_version": {
                    "type": "integer"
                }
            }
        },
        "dto.YardStatusResponse": {
            "type": "object",
            "properties": {
                "job_id": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "scheduled_date": {
                    "type": "string",
                    "format": "date-time"
                },
                "yard_window_start": {
                    "type": "string",
                    "format": "date-time"
                },
                "phases": {
                    "$ref": "#/definitions/dto.JobPhasesResponse"
                }
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Bearer {token}",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo información de la API exportada para que se pueda modificar en tiempo de ejecución.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FencePro Workflow API",
	Description:      "Motor de flujo de trabajo para instalación de cercas: solicitudes, cotizaciones, trabajos y facturas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
