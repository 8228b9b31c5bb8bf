package wide

import "testing"

func TestEqualFold(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want bool
	}{
		{"LastError", "lasterror", true},
		{"LASTERROR", "LastError", true},
		{"Пауза", "пАУЗА", true},
		{"CurrentDir", "CurrentDi", false},
		{"Env", "Envs", false},
		{"", "", true},
		{"😀", "😀", true},
		{"Pid", "Pia", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			if got := EqualFold(Encode(tt.a), tt.b); got != tt.want {
				t.Errorf("EqualFold(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEqualFold_LoneSurrogate(t *testing.T) {
	if EqualFold([]uint16{0xD800}, "a") {
		t.Error("lone surrogate should not fold to ascii")
	}
}
