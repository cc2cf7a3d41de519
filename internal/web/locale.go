package web

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

type displayLocale struct {
	tag    language.Tag
	zone   *time.Location
	format func(time.Time) string
}

var taipei = time.FixedZone("CST", 8*60*60)

var displayLocales = []displayLocale{
	{tag: language.MustParse("zh-TW"), zone: taipei, format: formatZhTW},
	{tag: language.AmericanEnglish, zone: taipei, format: func(t time.Time) string {
		return t.Format("1/2/2006, 3:04:05 PM")
	}},
	{tag: language.Japanese, zone: time.FixedZone("JST", 9*60*60), format: func(t time.Time) string {
		return t.Format("2006/1/2 15:04:05")
	}},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(displayLocales))
	for i, l := range displayLocales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// formatZhTW follows the browser's zh-TW rendering: 2025/12/3 下午2:05:09.
func formatZhTW(t time.Time) string {
	period := "上午"
	if t.Hour() >= 12 {
		period = "下午"
	}
	return t.Format("2006/1/2 ") + period + t.Format("3:04:05")
}

// FormatTimestamp renders t for the closest supported display locale.
// Unparseable locales fall back to zh-TW.
func FormatTimestamp(t time.Time, locale string) string {
	l := displayLocales[0]
	if tag, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		_, idx, conf := localeMatcher.Match(tag)
		if conf != language.No {
			l = displayLocales[idx]
		}
	}
	return l.format(t.In(l.zone))
}

// TimestampFormatter binds FormatTimestamp to a locale.
func TimestampFormatter(locale string) func(time.Time) string {
	return func(t time.Time) string { return FormatTimestamp(t, locale) }
}
