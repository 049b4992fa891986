package obs

import "testing"

func TestResourceLabel(t *testing.T) {
	cases := map[string]string{
		"":                         "root",
		"/":                        "root",
		"/bookings":                "bookings",
		"/bookings/abc":            "bookings",
		"/bookings/abc/status":     "bookings",
		"/uploads/customer/c1":     "uploads",
		"/notifications/unread":    "notifications",
		"/auth/login":              "auth",
		"/permissions/super_admin": "permissions",
	}
	for input, expected := range cases {
		if got := resourceLabel(input); got != expected {
			t.Fatalf("resourceLabel(%q)=%q, want %q", input, got, expected)
		}
	}
}
