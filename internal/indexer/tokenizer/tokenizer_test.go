package tokenizer

import (
	"reflect"
	"testing"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "network security policy", []string{"network", "security", "policy"}},
		{"punctuation split", "(secure), networks!", []string{"(", "secure", ")", ",", "networks", "!"}},
		{"dots and hyphens stay", "e.g. state-of-the-art", []string{"e.g.", "state-of-the-art"}},
		{"clitics", "don't the paper's", []string{"do", "n't", "the", "paper", "'s"}},
		{"curly quotes", "“secure” ‘nets’", []string{"“", "secure", "”", "‘", "nets'"}},
		{"curly apostrophe clitic", "the paper’s", []string{"the", "paper", "'s"}},
		{"cannot", "we Cannot index", []string{"we", "Can", "not", "index"}},
		{"other contractions", "gonna wanna", []string{"gon", "na", "wan", "na"}},
		{"empty", "   \n\t", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Words(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Words(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"case folding and trimming", "Network, SECURITY!", []string{"network", "security"}},
		{"digits trimmed", "2023networks 42", []string{"networks"}},
		{"non alphabetic dropped", "ipv4 a1b e=mc2", []string{"ipv"}},
		{"dot fragments go to the tail", "alpha beta.gamma delta", []string{"alpha", "delta", "beta", "gamma"}},
		{"hyphen fragments go to the tail", "peer-to-peer systems", []string{"systems", "peer", "to", "peer"}},
		{"dot splits before hyphen", "a.b-c end", []string{"end", "a", "b", "c"}},
		{"clitic fragments", "John's papers", []string{"john", "s", "papers"}},
		{"empty fragments dropped", "x..y", []string{"x", "y"}},
		{"curly quoted word kept", "“network” security", []string{"network", "security"}},
		{"curly apostrophe word kept", "the paper’s network", []string{"the", "paper", "s", "network"}},
		{"cannot shifts later tokens", "we cannot index", []string{"we", "can", "not", "index"}},
		{"guillemets", "«firewall» „rules“", []string{"firewall", "rules"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTokenAfterSplitIsProcessed(t *testing.T) {
	got := Normalize("first-second THIRD,")
	want := []string{"third", "first", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %#v, want %#v", got, want)
	}
}
