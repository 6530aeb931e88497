// Package docs holds the generated Swagger specification for the API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "description": "{{escape .Description}}",
    "title": "{{.Title}}",
    "version": "{{.Version}}"
  },
  "host": "{{.Host}}",
  "basePath": "{{.BasePath}}",
  "paths": {
    "/scans": {
      "post": {
        "security": [
          {
            "ApiKeyAuth": []
          }
        ],
        "description": "Submit a TCP port scan and let the service execute it asynchronously. The handler validates input, persists the task, and enqueues it for background workers before returning a UUID.\nPOST /scans answers with HTTP 202 Accepted plus the task identifier. Clients poll GET /scans/{id} to observe status transitions (pending → running → completed/failed) and live probe counts.",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "tags": [
          "Scans"
        ],
        "summary": "Create a new scan task",
        "parameters": [
          {
            "description": "Scan request parameters",
            "name": "scanRequest",
            "in": "body",
            "required": true,
            "schema": {
              "$ref": "#/definitions/api.CreateScanRequest"
            }
          }
        ],
        "responses": {
          "202": {
            "description": "Scan accepted. Poll GET /scans/{id} to track progress.",
            "schema": {
              "$ref": "#/definitions/api.ScanAcceptedResponse"
            }
          },
          "400": {
            "description": "Malformed JSON body, port range, or concurrency.",
            "schema": {
              "$ref": "#/definitions/api.ErrorResponse"
            }
          },
          "500": {
            "description": "Internal error while persisting or queueing the task.",
            "schema": {
              "$ref": "#/definitions/api.ErrorResponse"
            }
          }
        }
      }
    },
    "/scans/{id}": {
      "get": {
        "security": [
          {
            "ApiKeyAuth": []
          }
        ],
        "description": "Retrieve a live snapshot of a scan task. While the task runs, completed/total expose probe progress; once completed, results holds the open ports sorted ascending.",
        "produces": [
          "application/json"
        ],
        "tags": [
          "Scans"
        ],
        "summary": "Get scan status and results",
        "parameters": [
          {
            "type": "string",
            "description": "Scan Task ID (UUID v4)",
            "name": "id",
            "in": "path",
            "required": true
          }
        ],
        "responses": {
          "200": {
            "description": "Current task snapshot including results when completed.",
            "schema": {
              "$ref": "#/definitions/api.ScanTask"
            }
          },
          "400": {
            "description": "Malformed task identifier.",
            "schema": {
              "$ref": "#/definitions/api.ErrorResponse"
            }
          },
          "404": {
            "description": "Task with the provided ID does not exist.",
            "schema": {
              "$ref": "#/definitions/api.ErrorResponse"
            }
          },
          "500": {
            "description": "Internal error when loading the task.",
            "schema": {
              "$ref": "#/definitions/api.ErrorResponse"
            }
          }
        }
      }
    }
  },
  "definitions": {
    "api.CreateScanRequest": {
      "type": "object",
      "required": [
        "host"
      ],
      "properties": {
        "concurrency": {
          "description": "Concurrency is the worker pool size. Zero means the server default.",
          "type": "integer",
          "example": 16
        },
        "host": {
          "description": "Host is the hostname or IP address to probe.",
          "type": "string",
          "example": "scanme.nmap.org"
        },
        "ports": {
          "description": "Ports is an inclusive range in start-end form. Empty means the full range.",
          "type": "string",
          "example": "1-1024"
        }
      }
    },
    "api.ErrorResponse": {
      "type": "object",
      "properties": {
        "error": {
          "description": "Error is a human-readable explanation of why the request failed.",
          "type": "string",
          "example": "task not found"
        }
      }
    },
    "api.ScanAcceptedResponse": {
      "type": "object",
      "properties": {
        "id": {
          "description": "ID is the task identifier clients poll with.",
          "type": "string",
          "format": "uuid",
          "example": "a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"
        },
        "status": {
          "description": "Status is always pending immediately after acceptance.",
          "type": "string",
          "enum": [
            "pending"
          ],
          "example": "pending"
        }
      }
    },
    "api.ScanTask": {
      "type": "object",
      "properties": {
        "completed": {
          "description": "Completed counts probes finished so far; live while running.",
          "type": "integer",
          "example": 2000
        },
        "completed_at": {
          "description": "CompletedAt is set once the task reaches a terminal state.",
          "type": "string",
          "format": "date-time"
        },
        "concurrency": {
          "description": "Concurrency is the worker pool size used for this scan.",
          "type": "integer",
          "example": 16
        },
        "created_at": {
          "description": "CreatedAt records when the API accepted the request (UTC).",
          "type": "string",
          "format": "date-time",
          "example": "2024-01-02T15:04:05Z"
        },
        "error": {
          "description": "Error contains context when a task fails.",
          "type": "string",
          "example": "invalid port range format. Use startPort-endPort"
        },
        "host": {
          "description": "Host is the target submitted for scanning.",
          "type": "string",
          "example": "scanme.nmap.org"
        },
        "id": {
          "description": "ID is the immutable identifier of the scan task (UUID v4).",
          "type": "string",
          "format": "uuid",
          "example": "a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"
        },
        "ports": {
          "description": "Ports is the requested inclusive port range in start-end form.",
          "type": "string",
          "example": "1-1024"
        },
        "results": {
          "description": "Results holds the open ports, sorted ascending, once the task completes.",
          "type": "array",
          "items": {
            "$ref": "#/definitions/scanner.ProbeResult"
          }
        },
        "started_at": {
          "description": "StartedAt is set when a worker picks the task up.",
          "type": "string",
          "format": "date-time"
        },
        "status": {
          "description": "Status reflects the asynchronous lifecycle state of the task.",
          "type": "string",
          "enum": [
            "pending",
            "running",
            "completed",
            "failed"
          ],
          "example": "pending"
        },
        "total": {
          "description": "Total is the number of ports in the requested range.",
          "type": "integer",
          "example": 65535
        }
      }
    },
    "scanner.ProbeResult": {
      "type": "object",
      "properties": {
        "port": {
          "type": "integer",
          "example": 80
        },
        "service": {
          "type": "string",
          "example": "HTTP"
        },
        "status": {
          "type": "string",
          "enum": [
            "OPEN",
            "CLOSED"
          ],
          "example": "OPEN"
        }
      }
    }
  },
  "securityDefinitions": {
    "ApiKeyAuth": {
      "type": "apiKey",
      "name": "Authorization",
      "in": "header"
    }
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Portscan API",
	Description:      "REST API for the portscan TCP port scanner. Submit scan tasks and poll for progress and results.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
