package compendium

import "testing"

func TestNameKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Goblin", "goblin"},
		{"Will-o'-Wisp", "willowisp"},
		{"  Adult Red Dragon ", "adultreddragon"},
		{"Potion of Healing (Greater)", "potionofhealinggreater"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NameKey(tt.name); got != tt.want {
			t.Errorf("NameKey(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
