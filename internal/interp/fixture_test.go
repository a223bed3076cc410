package interp

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/pseudocode-lang/pseudocode/internal/host/virtual"
)

func TestMain(m *testing.M) {
	code := m.Run()
	snaps.Clean(m)
	os.Exit(code)
}

// TestProgramSnapshots runs small but complete programs end to end and
// snapshots their full output.
func TestProgramSnapshots(t *testing.T) {
	fixtures := []struct {
		name   string
		source string
		files  map[string]string
		inputs []string
	}{
		{
			name: "fizzbuzz",
			source: `FOR n <- 1 TO 15
  IF MOD(n, 15) = 0 THEN
    OUTPUT "FizzBuzz"
  ELSE
    IF MOD(n, 3) = 0 THEN
      OUTPUT "Fizz"
    ELSE
      IF MOD(n, 5) = 0 THEN
        OUTPUT "Buzz"
      ELSE
        OUTPUT n
      ENDIF
    ENDIF
  ENDIF
NEXT n`,
		},
		{
			name: "bubble_sort",
			source: `DECLARE a : ARRAY[1:5] OF INTEGER
a[1] <- 5
a[2] <- 1
a[3] <- 4
a[4] <- 2
a[5] <- 3
DECLARE tmp : INTEGER
FOR i <- 1 TO 4
  FOR j <- 1 TO 4
    IF a[j] > a[j+1] THEN
      tmp <- a[j]
      a[j] <- a[j+1]
      a[j+1] <- tmp
    ENDIF
  NEXT j
NEXT i
OUTPUT a`,
		},
		{
			name: "string_report",
			source: `DECLARE name : STRING
INPUT name
OUTPUT "Hello, ", UCASE(name), "!"
OUTPUT "Your name has ", LENGTH(name), " letters."
OUTPUT "It starts with ", SUBSTRING(name, 1, 1), " and ends with ", RIGHT(name, 1), "."`,
			inputs: []string{"Ada"},
		},
		{
			name: "grade_cases",
			source: `DECLARE mark : INTEGER
DECLARE grade : STRING
mark <- 72
IF mark >= 70 THEN
  grade <- "A"
ELSE
  IF mark >= 50 THEN
    grade <- "B"
  ELSE
    grade <- "C"
  ENDIF
ENDIF
OUTPUT "mark ", mark, " is grade ", grade`,
		},
		{
			name: "file_copy",
			source: `DECLARE line : STRING
OPENFILE "in.txt" FOR READ
OPENFILE "out.txt" FOR WRITE
WHILE NOT EOF("in.txt") DO
  READFILE "in.txt", line
  WRITEFILE "out.txt", line
ENDWHILE
CLOSEFILE "in.txt"
CLOSEFILE "out.txt"
OUTPUT "copied"`,
			files: map[string]string{"in.txt": "alpha\nbeta\ngamma\n"},
		},
		{
			name: "record_inventory",
			source: `TYPE Item
DECLARE name : STRING
DECLARE qty : INTEGER
ENDTYPE
DECLARE it : Item
it.name <- "bolt"
it.qty <- 40
it.qty <- it.qty - 15
OUTPUT it
OUTPUT it.name, ": ", it.qty`,
		},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			h := virtual.New()
			for name, content := range fx.files {
				h.SetFile(name, content)
			}
			for _, line := range fx.inputs {
				h.AddInput(line)
			}
			out, err := runHost(t, h, fx.source)
			if err != nil {
				t.Fatalf("%s failed: %s", fx.name, err)
			}
			snaps.MatchSnapshot(t, out)
		})
	}
}
