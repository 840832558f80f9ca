package tzposix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Footers found across a stock /usr/share/zoneinfo tree.
func TestDescribeAllFooters(t *testing.T) {
	var tests = []string{
		"<+00>0<+01>,0/0,J365/25",
		"<+00>0<+02>-2,M3.5.0/1,M10.5.0/3",
		"<+01>-1",
		"<+02>-2",
		"<+0330>-3:30",
		"<+03>-3",
		"<+0430>-4:30",
		"<+04>-4",
		"<+0530>-5:30",
		"<+0545>-5:45",
		"<+05>-5",
		"<+0630>-6:30",
		"<+06>-6",
		"<+07>-7",
		"<+0845>-8:45",
		"<+0845>-8:45:15",
		"<+0845>-8:45:59",
		"<+08>-8",
		"<+09>-9",
		"<+1030>-10:30<+11>-11,M10.1.0,M4.1.0",
		"<+10>-10",
		"<+11>-11",
		"<+11>-11<+12>,M10.1.0,M4.1.0/3",
		"<+1245>-12:45<+1345>,M9.5.0/2:45,M4.1.0/3:45",
		"<+12>-12",
		"<+13>-13",
		"<+14>-14",
		"<-00>0",
		"<-01>1",
		"<-01>1<+00>,M3.5.0/0,M10.5.0/1",
		"<-02>2",
		"<-02>2<-01>,M3.5.0/-1,M10.5.0/0",
		"<-03>3",
		"<-03>3<-02>,M3.2.0,M11.1.0",
		"<-04>4",
		"<-04>4<-03>,M9.1.6/24,M4.1.6/24",
		"<-05>5",
		"<-06>6",
		"<-06>6<-05>,M9.1.6/22,M4.1.6/22",
		"<-07>7",
		"<-08>8",
		"<-0930>9:30",
		"<-09>9",
		"<-10>10",
		"<-11>11",
		"<-12>12",
		"ACST-9:30",
		"ACST-9:30ACDT,M10.1.0,M4.1.0/3",
		"AEST-10",
		"AEST-10AEDT,M10.1.0,M4.1.0/3",
		"AKST9AKDT,M3.2.0,M11.1.0",
		"AST4",
		"AST4ADT,M3.2.0,M11.1.0",
		"AWST-8",
		"CAT-2",
		"CET-1",
		"CET-1CEST,M3.5.0,M10.5.0/3",
		"CST-8",
		"CST5CDT,M3.2.0/0,M11.1.0/1",
		"CST6",
		"CST6CDT,M3.2.0,M11.1.0",
		"ChST-10",
		"EAT-3",
		"EET-2",
		"EET-2EEST,M3.4.4/50,M10.4.4/50",
		"EET-2EEST,M3.5.0,M10.5.0/3",
		"EET-2EEST,M3.5.0/0,M10.5.0/0",
		"EET-2EEST,M3.5.0/3,M10.5.0/4",
		"EET-2EEST,M4.5.5/0,M10.5.4/24",
		"EST5",
		"EST5EDT,M3.2.0,M11.1.0",
		"GMT0",
		"GMT0BST,M3.5.0/1,M10.5.0",
		"GMT0IST,M3.5.0/1,M10.5.0",
		"HKT-8",
		"HST10",
		"HST10HDT,M3.2.0,M11.1.0",
		"IST-2IDT,M3.4.4/26,M10.5.0",
		"IST-5:30",
		"JST-9",
		"KST-9",
		"MET-1MEST,M3.5.0,M10.5.0/3",
		"MSK-3",
		"MST7",
		"MST7MDT,M3.2.0,M11.1.0",
		"NST3:30NDT,M3.2.0,M11.1.0",
		"NZST-12NZDT,M9.5.0,M4.1.0/3",
		"PKT-5",
		"PST-8",
		"PST8PDT,M3.2.0,M11.1.0",
		"SAST-2",
		"SST11",
		"UTC0",
		"WAT-1",
		"WET0WEST,M3.5.0/1,M10.5.0",
		"WIB-7",
		"WIT-9",
		"WITA-8",
	}

	for _, ptz := range tests {
		t.Run(ptz, func(t *testing.T) {
			ans, err := HumanReadableTZ(ptz)
			if err != nil {
				t.Errorf("got %v, want nil", err)
				return
			}
			t.Log(ans)
		})
	}
}

func TestDescribe(t *testing.T) {
	var tests = []struct {
		tz     string
		expect Description
	}{
		{tz: "CET-1CEST,M3.5.0,M10.5.0/3",
			expect: Description{
				Standard: "CET (UTC +01:00)",
				Daylight: "CEST (UTC +02:00)",
				Rules:    "Starts on the last Sunday of March at 02:00:00, Ends on the last Sunday of October at 03:00:00",
			},
		},
		{tz: "PST8PDT,M3.2.0,M11.1.0",
			expect: Description{
				Standard: "PST (UTC -08:00)",
				Daylight: "PDT (UTC -07:00)",
				Rules:    "Starts on the second Sunday of March at 02:00:00, Ends on the first Sunday of November at 02:00:00",
			},
		},
		{tz: "IST-2IDT,M3.4.4/26,M10.5.0",
			expect: Description{
				Standard: "IST (UTC +02:00)",
				Daylight: "IDT (UTC +03:00)",
				Rules:    "Starts on the fourth Thursday of March at 02:00:00 the next day, Ends on the last Sunday of October at 02:00:00",
			},
		},
		{tz: "EET-2EEST,M3.4.4/50,M10.4.4/50",
			expect: Description{
				Standard: "EET (UTC +02:00)",
				Daylight: "EEST (UTC +03:00)",
				Rules:    "Starts on the fourth Thursday of March at 02:00:00, 2 days later, Ends on the fourth Thursday of October at 02:00:00, 2 days later",
			},
		},
		{tz: "EET-2EEST,M4.5.5/0,M10.5.4/24",
			expect: Description{
				Standard: "EET (UTC +02:00)",
				Daylight: "EEST (UTC +03:00)",
				Rules:    "Starts on the last Friday of April at 00:00:00, Ends on the last Thursday of October at midnight of the next day",
			},
		},
		{tz: "<-02>2<-01>,M3.5.0/-1,M10.5.0/0",
			expect: Description{
				Standard: "<-02> (UTC -02:00)",
				Daylight: "<-01> (UTC -01:00)",
				Rules:    "Starts on the last Sunday of March at 23:00:00 the previous day, Ends on the last Sunday of October at 00:00:00",
			},
		},
		{tz: "<+00>0<+01>,0/0,J365/25",
			expect: Description{
				Standard: "<+00> (UTC +00:00)",
				Daylight: "<+01> (UTC +01:00)",
				Rules:    "Starts from the start of the year, Ends at the end of the year",
			},
		},
		{tz: "NST3:30NDT,M3.2.0,M11.1.0",
			expect: Description{
				Standard: "NST (UTC -03:30)",
				Daylight: "NDT (UTC -02:30)",
				Rules:    "Starts on the second Sunday of March at 02:00:00, Ends on the first Sunday of November at 02:00:00",
			},
		},
		{tz: "<+0845>-8:45:15", expect: Description{Standard: "<+0845> (UTC +08:45:15)"}},
		{tz: "IST-5:30", expect: Description{Standard: "IST (UTC +05:30)"}},
		{tz: "GMT0", expect: Description{Standard: "GMT (UTC +00:00)"}},
	}

	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			got, err := Describe(tt.tz)
			if err != nil {
				t.Fatalf("got %v, want nil", err)
			}
			if diff := cmp.Diff(tt.expect, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDescribeInvalid(t *testing.T) {
	for _, tz := range []string{"", "EST", "1EST", "Europe/Paris", "CET-1CEST,M3.5.0,M10.5.0/3,extra"} {
		t.Run(tz, func(t *testing.T) {
			if _, err := Describe(tz); err == nil {
				t.Errorf("got nil, want error")
			}
		})
	}
}

func TestDescriptionString(t *testing.T) {
	var tests = []struct {
		tz     string
		expect string
	}{
		{tz: "JST-9", expect: "JST (UTC +09:00), no daylight saving time"},
		{tz: "CET-1CEST,M3.5.0,M10.5.0/3",
			expect: "CET (UTC +01:00) / CEST (UTC +02:00); Starts on the last Sunday of March at 02:00:00, Ends on the last Sunday of October at 03:00:00"},
		{tz: "EST5EDT", expect: "EST (UTC -05:00) / EDT (UTC -04:00)"},
	}
	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			d, err := Describe(tt.tz)
			if err != nil {
				t.Fatal(err)
			}
			if d.String() != tt.expect {
				t.Errorf("got %q, want %q", d.String(), tt.expect)
			}
		})
	}
}

func TestHumanReadableTZ(t *testing.T) {
	var tests = []struct {
		tz     string
		expect string
	}{
		{tz: "PST8PDT,M3.2.0,M11.1.0",
			expect: "Standard Time: PST (UTC -08:00)\n" +
				"Daylight Time: PDT (UTC -07:00)\n" +
				"Rules: Starts on the second Sunday of March at 02:00:00, Ends on the first Sunday of November at 02:00:00",
		},
		{tz: "EAT-3",
			expect: "Standard Time: EAT (UTC +03:00)\n(No Daylight Saving Time rules)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			ans, err := HumanReadableTZ(tt.tz)
			if err != nil {
				t.Fatalf("got %v, want nil", err)
			}
			if ans != tt.expect {
				t.Errorf("got %q, want %q", ans, tt.expect)
			}
		})
	}
}
