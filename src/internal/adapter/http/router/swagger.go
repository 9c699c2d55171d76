package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Atomic Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Atomic Ledger API",
    "version": "1.0.0"
  },
  "paths": {
    "/accounts": {
      "post": {
        "summary": "Register an account with a zero balance",
        "security": [
          {
            "ChannelAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["displayName", "password"],
                "properties": {
                  "displayName": {"type": "string", "minLength": 3, "maxLength": 64},
                  "password": {"type": "string", "minLength": 8, "maxLength": 72}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "409": {"description": "Account already exists"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/balance": {
      "get": {
        "summary": "Get the caller's balance",
        "security": [
          {
            "AccountAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Balance fetched"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/deposit": {
      "post": {
        "summary": "Deposit into the caller's account",
        "security": [
          {
            "AccountAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["amount"],
                "properties": {
                  "amount": {"type": "string", "example": "150.00"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Deposited"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/withdraw": {
      "post": {
        "summary": "Withdraw from the caller's account",
        "security": [
          {
            "AccountAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["amount"],
                "properties": {
                  "amount": {"type": "string", "example": "150.00"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Withdrawn"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "422": {"description": "Insufficient funds"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/transfer": {
      "post": {
        "summary": "Transfer from the caller to a named account",
        "security": [
          {
            "AccountAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["toAccountName", "amount"],
                "properties": {
                  "toAccountName": {"type": "string", "example": "B"},
                  "amount": {"type": "string", "example": "200.00"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Transferred"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Account not found"},
          "422": {"description": "Insufficient funds"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/transactions": {
      "get": {
        "summary": "List transactions involving the caller, newest first",
        "security": [
          {
            "AccountAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Transactions fetched"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/ledger/transactions": {
      "get": {
        "summary": "List every transaction, newest first",
        "security": [
          {
            "ChannelAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Transactions fetched"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/ledger/accounts": {
      "get": {
        "summary": "List every account with its balance",
        "security": [
          {
            "ChannelAuth": []
          }
        ],
        "responses": {
          "200": {"description": "Accounts fetched"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/health": {
      "get": {
        "summary": "Liveness probe",
        "responses": {
          "200": {"description": "Service is up"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "ChannelAuth": {"type": "http", "scheme": "basic", "description": "channel id and key"},
      "AccountAuth": {"type": "http", "scheme": "basic", "description": "account display name and password"}
    }
  }
}`
