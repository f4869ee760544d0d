package filetype

import "testing"

func Test_Category(t *testing.T) {
	tests := []struct {
		extension string
		want      string
	}{
		{"go", Code},
		{"pdf", Document},
		{"PDF", Document},
		{"jpeg", Image},
		{"flac", Audio},
		{"mkv", Video},
		{"7z", Archive},
		{"exe", Executable},
		{"csv", Data},
		{"xyz", Other},
		{"", Other},
	}
	for _, tt := range tests {
		t.Run(tt.extension, func(t *testing.T) {
			if got := Category(tt.extension); got != tt.want {
				t.Errorf("Category(%q) = %q, want %q", tt.extension, got, tt.want)
			}
		})
	}
}
