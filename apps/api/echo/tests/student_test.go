package tests

import (
	"net/http"
	"testing"

	"github.com/mahudhurio/backend/core/student"
	testutil "github.com/mahudhurio/backend/tests"
)

func Test_studentApi_query(t *testing.T) {
	app := setup(t)

	jane := testutil.CreateStudent(t, app.stdRepo, "Jane_Doe", "Jane Doe", "CS101")
	john := testutil.CreateStudent(t, app.stdRepo, "John_Smith", "John Smith", "CS101")
	ada := testutil.CreateStudent(t, app.stdRepo, "Ada_L", "Ada L", "CS102")

	tests := []httpTest{
		{
			name: "all students", method: http.MethodGet, path: "/v1/students",
			wantCode: http.StatusOK, wantData: marchallObj(t, []student.Student{ada, jane, john}),
		},
		{
			name: "filter by class", method: http.MethodGet, path: "/v1/students?classId=CS101",
			wantCode: http.StatusOK, wantData: marchallObj(t, []student.Student{jane, john}),
		},
		{
			name: "unknown class", method: http.MethodGet, path: "/v1/students?classId=CS999",
			wantCode: http.StatusOK, wantData: marchallObj(t, []student.Student{}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_create(t *testing.T) {
	app := setup(t)
	token := getToken(t, app.conf)

	testutil.CreateStudent(t, app.stdRepo, "Jane_Doe", "Jane Doe", "CS101")

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/v1/students",
			body:     []byte(`{"name": "John Smith", "classId": "CS101"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "name and class required", method: http.MethodPost, path: "/v1/students", token: token,
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required", "classId": "this field is required"}),
		},
		{
			name: "duplicate id", method: http.MethodPost, path: "/v1/students", token: token,
			body:     []byte(`{"name": "Jane Doe", "classId": "CS101"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"id": student.ErrIDExists.Error()}),
		},
		{
			name: "created", method: http.MethodPost, path: "/v1/students", token: token,
			body:     []byte(`{"name": "John Smith", "classId": "CS101"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var std student.Student
				decodeBody(t, rec, &std)
				if std.ID != "John_Smith" || std.ClassID != "CS101" {
					t.Errorf("created = %+v", std)
				}
			}
		})
	}
}

func Test_studentApi_destroy(t *testing.T) {
	app := setup(t)
	token := getToken(t, app.conf)

	jane := testutil.CreateStudent(t, app.stdRepo, "Jane_Doe", "Jane Doe", "CS101")

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodDelete, path: "/v1/students/" + jane.ID,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "unknown student", method: http.MethodDelete, path: "/v1/students/nope", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "deleted", method: http.MethodDelete, path: "/v1/students/" + jane.ID, token: token,
			wantCode: http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
