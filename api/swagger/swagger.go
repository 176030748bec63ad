package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Registrar API",
        "description": "Academic records administration and public result lookup",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Staff authentication"},
        {"name": "Departments", "description": "Department management"},
        {"name": "Batches", "description": "Four-year batch cohorts"},
        {"name": "Subjects", "description": "Subject catalogue"},
        {"name": "Semesters", "description": "Per-batch curriculum"},
        {"name": "Lectures", "description": "Teacher assignments"},
        {"name": "Teachers", "description": "Teaching staff roster"},
        {"name": "Students", "description": "Student registry"},
        {"name": "Results", "description": "Marks entry and grading"},
        {"name": "Transcripts", "description": "Semester result cards"},
        {"name": "Public", "description": "Unauthenticated result lookup"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a staff user",
                "responses": {
                    "200": {"description": "Signed access token and user profile"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/departments": {
            "get": {
                "tags": ["Departments"],
                "summary": "List departments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Departments"],
                "summary": "Create department",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/batches": {
            "get": {
                "tags": ["Batches"],
                "summary": "List batches",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Batches"],
                "summary": "Create a batch for a start year",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Batch already exists for the department and year range"}
                }
            }
        },
        "/batches/plan": {
            "get": {
                "tags": ["Batches"],
                "summary": "Preview clamped start year, end year and name",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/batches/{id}/semesters": {
            "get": {
                "tags": ["Semesters"],
                "summary": "List a batch's semesters in study order",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/batches/{id}/available-subjects": {
            "get": {
                "tags": ["Semesters"],
                "summary": "List subjects still placeable in the batch",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/batches/{id}/schedule": {
            "get": {
                "tags": ["Lectures"],
                "summary": "Current semesters grouped into the two weekly schedule sets",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Subject code already exists in the department"}
                }
            }
        },
        "/semesters": {
            "post": {
                "tags": ["Semesters"],
                "summary": "Create a semester with its subject set",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Subject already placed in another semester of the batch"}
                }
            }
        },
        "/lectures": {
            "get": {
                "tags": ["Lectures"],
                "summary": "List teacher assignments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Lectures"],
                "summary": "Assign a teacher to a semester subject",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Slot taken or teacher at semester capacity"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "CNIC already registered"}
                }
            }
        },
        "/results": {
            "put": {
                "tags": ["Results"],
                "summary": "Save component marks, recomputing totals and grade",
                "responses": {
                    "200": {"description": "Saved"},
                    "400": {"description": "Component exceeds its scheme maximum"}
                }
            }
        },
        "/students/{id}/semesters/{semesterId}/transcript": {
            "get": {
                "tags": ["Transcripts"],
                "summary": "Build a semester transcript with GPA and overall grade",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/public/results": {
            "get": {
                "tags": ["Public"],
                "summary": "Look up a student's results by CNIC",
                "responses": {
                    "200": {"description": "Student, batch and semester list"},
                    "400": {"description": "Malformed CNIC"},
                    "429": {"description": "Rate limited"}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
