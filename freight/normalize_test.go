package freight

import "testing"

func TestFoldKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple lowercase",
			input: "Peso",
			want:  "peso",
		},
		{
			name:  "slash to underscore",
			input: "Destino/Estufagem",
			want:  "destino_estufagem",
		},
		{
			name:  "spaces to underscore",
			input: "Valor da mercadoria",
			want:  "valor_da_mercadoria",
		},
		{
			name:  "dash to underscore",
			input: "Valor-da-mercadoria",
			want:  "valor_da_mercadoria",
		},
		{
			name:  "leading list dash stripped",
			input: "- Origem",
			want:  "origem",
		},
		{
			name:  "accented label preserved",
			input: "Espécie",
			want:  "espécie",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FoldKey(tt.input); got != tt.want {
				t.Errorf("FoldKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{
			name:  "integer with unit",
			input: "18000 kg",
			want:  18000.0,
			ok:    true,
		},
		{
			name:  "comma decimal separator",
			input: "18,5 ton",
			want:  18.5,
			ok:    true,
		},
		{
			name:  "dot decimal separator",
			input: "12.5 m3",
			want:  12.5,
			ok:    true,
		},
		{
			name:  "first match wins",
			input: "12.345,67 kg",
			want:  12.345,
			ok:    true,
		},
		{
			name:  "numeral embedded in words",
			input: "aproximadamente 1500 quilos",
			want:  1500.0,
			ok:    true,
		},
		{
			name:  "no numeral",
			input: "não informado",
			ok:    false,
		},
		{
			name:  "empty value",
			input: "",
			ok:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	if n, ok := ParseInt("6 eixos"); !ok || n != 6 {
		t.Errorf("ParseInt(\"6 eixos\") = %d, %v", n, ok)
	}
	if _, ok := ParseInt("(não especificado)"); ok {
		t.Error("ParseInt should fail on a value without digits")
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Location
		ok    bool
	}{
		{
			name:  "two tokens",
			input: "SANTOS SP",
			want:  Location{City: "SANTOS", State: "SP"},
			ok:    true,
		},
		{
			name:  "multi word city",
			input: "SAO PAULO SP",
			want:  Location{City: "SAO PAULO", State: "SP"},
			ok:    true,
		},
		{
			name:  "extra whitespace collapsed",
			input: "  RIO   DE  JANEIRO   RJ ",
			want:  Location{City: "RIO DE JANEIRO", State: "RJ"},
			ok:    true,
		},
		{
			name:  "single token rejected",
			input: "SP",
			ok:    false,
		},
		{
			name:  "empty rejected",
			input: "",
			ok:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLocation(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseLocation(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseLocation(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsNotProvided(t *testing.T) {
	for _, v := range []string{"n/a", "N/A", "não fornecido", "(não fornecido)", "  n/a  "} {
		if !IsNotProvided(v) {
			t.Errorf("IsNotProvided(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "12.5 m3", "nao fornecido mesmo"} {
		if IsNotProvided(v) {
			t.Errorf("IsNotProvided(%q) = true, want false", v)
		}
	}
}
