package token

import "testing"

func TestUnescape(t *testing.T) {
	cases := []struct {
		in   string
		want string
		bad  []int
	}{
		{`plain`, "plain", nil},
		{`a\"b`, `a"b`, nil},
		{`\n\t\\\/`, "\n\t\\/", nil},
		{`é`, "é", nil},
		{`😀`, "😀", nil},
		{`x\qy`, "xqy", []int{1}},
		{`\u12`, "u12", []int{0}},
	}
	for _, c := range cases {
		got, bad := Unescape(nil, []byte(c.in))
		if string(got) != c.want {
			t.Errorf("%q: got %q want %q", c.in, got, c.want)
		}
		if len(bad) != len(c.bad) {
			t.Errorf("%q: bad %v want %v", c.in, bad, c.bad)
			continue
		}
		for i := range bad {
			if bad[i] != c.bad[i] {
				t.Errorf("%q: bad %v want %v", c.in, bad, c.bad)
			}
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, v := range []string{"", "a\"b", "tab\there", "nl\n", "\x01", "ünï"} {
		q := Quote(v)
		got, bad := Unescape(nil, []byte(q[1:len(q)-1]))
		if string(got) != v || len(bad) != 0 {
			t.Errorf("%q: quoted %s decoded %q", v, q, got)
		}
	}
}
