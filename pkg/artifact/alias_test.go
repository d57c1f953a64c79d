package artifact

import "testing"

func TestParseAlias(t *testing.T) {
	cases := []struct {
		name    string
		alias   string
		want    *AliasRef
		wantErr string
	}{
		{
			name:  "namespace, name and tag",
			alias: "team/myapp:v2.1",
			want:  &AliasRef{Namespace: "team", Name: "myapp", Tag: "v2.1"},
		},
		{
			name:  "bare name defaults namespace and tag",
			alias: "myapp",
			want:  &AliasRef{Namespace: "library", Name: "myapp", Tag: "latest"},
		},
		{
			name:    "extra colon rejected",
			alias:   "name:tag:extra",
			wantErr: "name contains invalid characters",
		},
		{
			name:    "empty alias rejected",
			alias:   "",
			wantErr: "alias cannot be empty",
		},
		{
			name:    "empty namespace rejected",
			alias:   "/myapp",
			wantErr: "namespace cannot be empty",
		},
		{
			name:    "empty tag rejected",
			alias:   "myapp:",
			wantErr: "tag cannot be empty",
		},
		{
			name:    "too many path separators rejected",
			alias:   "a/b/c",
			wantErr: "invalid format: too many path separators",
		},
		{
			name:  "dots dashes underscores plus allowed",
			alias: "my.ns-1/my_app+v1:1.2.3-rc_1",
			want:  &AliasRef{Namespace: "my.ns-1", Name: "my_app+v1", Tag: "1.2.3-rc_1"},
		},
		{
			name:    "invalid character in namespace",
			alias:   "te$am/myapp",
			wantErr: "namespace contains invalid characters",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAlias(tc.alias)
			if tc.wantErr != "" {
				if err == nil || err.Error() != tc.wantErr {
					t.Fatalf("ParseAlias(%q) error = %v, want %q", tc.alias, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAlias(%q) unexpected error: %v", tc.alias, err)
			}
			if *got != *tc.want {
				t.Fatalf("ParseAlias(%q) = %+v, want %+v", tc.alias, *got, *tc.want)
			}
		})
	}
}

func TestParseAlias_TooLong(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err := ParseAlias(string(long))
	if err == nil {
		t.Fatal("expected error for over-length alias")
	}
}

func TestAliasRef_StringRoundTrip(t *testing.T) {
	ref, err := ParseAlias("team/myapp:v2.1")
	if err != nil {
		t.Fatalf("ParseAlias error: %v", err)
	}
	if got, want := ref.String(), "team/myapp:v2.1"; got != want {
		t.Fatalf("String() = %s, want %s", got, want)
	}

	reparsed, err := ParseAlias(ref.String())
	if err != nil {
		t.Fatalf("re-parse error: %v", err)
	}
	if *reparsed != *ref {
		t.Fatalf("round-trip mismatch: %+v != %+v", *reparsed, *ref)
	}
}

func TestAliasRef_StringOmitsDefaults(t *testing.T) {
	ref, err := ParseAlias("myapp")
	if err != nil {
		t.Fatalf("ParseAlias error: %v", err)
	}
	if got, want := ref.String(), "myapp"; got != want {
		t.Fatalf("String() = %s, want %s", got, want)
	}

	reparsed, err := ParseAlias(ref.String())
	if err != nil {
		t.Fatalf("re-parse error: %v", err)
	}
	if *reparsed != *ref {
		t.Fatalf("round-trip mismatch: %+v != %+v", *reparsed, *ref)
	}
}
