package timestamp

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		want   float64
		wantOK bool
	}{
		{name: "minutesSeconds", label: "02:05", want: 125, wantOK: true},
		{name: "shortMinutes", label: "0:07", want: 7, wantOK: true},
		{name: "hours", label: "1:02:03", want: 3723, wantOK: true},
		{name: "singleField", label: "42", wantOK: false},
		{name: "tooManyFields", label: "1:2:3:4", wantOK: false},
		{name: "notNumeric", label: "ab:cd", wantOK: false},
		{name: "secondsOutOfRange", label: "02:99", wantOK: false},
		{name: "minutesOutOfRange", label: "1:75:00", wantOK: false},
		{name: "singleDigitSeconds", label: "1:2", wantOK: false},
		{name: "signed", label: "+5:00", wantOK: false},
		{name: "surroundingSpace", label: " 5:00", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.label)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.label, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	text := "The demo starts at 02:15, the pricing slide shows at 1:04:30 and ends near 9:59."

	marks := Find(text)
	want := []Mark{
		{Label: "02:15", Seconds: 135},
		{Label: "1:04:30", Seconds: 3870},
		{Label: "9:59", Seconds: 599},
	}

	if len(marks) != len(want) {
		t.Fatalf("Find() returned %d marks, want %d: %v", len(marks), len(want), marks)
	}
	for i := range want {
		if marks[i] != want[i] {
			t.Errorf("marks[%d] = %+v, want %+v", i, marks[i], want[i])
		}
	}
}

func TestFindNoMatches(t *testing.T) {
	if marks := Find("no moments referenced here, ratio 3:1"); marks != nil {
		t.Errorf("Find() = %v, want nil", marks)
	}
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()

	var first, second []float64
	unsubscribe := b.Subscribe(SeekerFunc(func(s float64) { first = append(first, s) }))
	b.Subscribe(SeekerFunc(func(s float64) { second = append(second, s) }))

	b.Seek(Mark{Label: "01:00", Seconds: 60})
	unsubscribe()
	b.Seek(Mark{Label: "02:00", Seconds: 120})

	if len(first) != 1 || first[0] != 60 {
		t.Errorf("first subscriber got %v, want [60]", first)
	}
	if len(second) != 2 || second[1] != 120 {
		t.Errorf("second subscriber got %v, want [60 120]", second)
	}
}
