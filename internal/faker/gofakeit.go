package faker

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// aliases maps Java-faker "Category.method" names (lowercased) onto gofakeit
// lookup functions.
var aliases = map[string]string{
	"name.firstname":             "firstname",
	"name.lastname":              "lastname",
	"name.fullname":              "name",
	"name.name":                  "name",
	"name.prefix":                "nameprefix",
	"name.suffix":                "namesuffix",
	"name.username":              "username",
	"name.title":                 "jobtitle",
	"internet.emailaddress":      "email",
	"internet.safeemailaddress":  "email",
	"internet.url":               "url",
	"internet.domainname":        "domainname",
	"internet.ipv4address":       "ipv4address",
	"internet.ipv6address":       "ipv6address",
	"internet.macaddress":        "macaddress",
	"internet.password":          "password",
	"internet.uuid":              "uuid",
	"address.city":               "city",
	"address.streetaddress":      "street",
	"address.streetname":         "streetname",
	"address.zipcode":            "zip",
	"address.state":              "state",
	"address.stateabbr":          "stateabr",
	"address.country":            "country",
	"address.countrycode":        "countryabr",
	"address.latitude":           "latitude",
	"address.longitude":          "longitude",
	"phonenumber.phonenumber":    "phone",
	"phonenumber.cellphone":      "phone",
	"phonenumber.phoneformatted": "phoneformatted",
	"company.name":               "company",
	"company.suffix":             "companysuffix",
	"company.buzzword":           "buzzword",
	"company.bs":                 "bs",
	"job.title":                  "jobtitle",
	"job.field":                  "jobdescriptor",
	"job.position":               "joblevel",
	"lorem.word":                 "word",
	"lorem.sentence":             "sentence",
	"lorem.paragraph":            "paragraph",
	"color.name":                 "color",
	"color.hex":                  "hexcolor",
	"finance.creditcard":         "creditcardnumber",
	"number.digit":               "digit",
	"number.randomnumber":        "number:0,2147483647",
	"idnumber.ssn":               "ssn",
	"idnumber.valid":             "ssn",
	"animal.name":                "animal",
	"beer.name":                  "beername",
	"food.fruit":                 "fruit",
	"app.name":                   "appname",
	"currency.code":              "currencyshort",
	"demographic.sex":            "gender",
}

// resolveFunc maps a directive name onto a gofakeit function reference.
// "Category.method" names go through aliases; bare names ("email",
// "number:1,10") are taken as gofakeit functions. Either way the target must
// exist and its parameters must fit the function's signature.
func resolveFunc(name string) (string, error) {
	fn, ok := aliases[strings.ToLower(name)]
	if !ok {
		if strings.Contains(name, ".") {
			return "", fmt.Errorf("unknown expression %q", name)
		}
		fn = strings.ToLower(name)
	}
	base, params, hasParams := strings.Cut(fn, ":")
	info := gofakeit.GetFuncLookup(base)
	if info == nil {
		return "", fmt.Errorf("unknown expression %q", name)
	}
	if hasParams {
		if err := checkParams(info, params); err != nil {
			return "", fmt.Errorf("expression %q: %w", name, err)
		}
	}
	return fn, nil
}

// checkParams mirrors how gofakeit binds "fn:a,b" arguments and rejects what
// it would ignore or fail on at generation time.
func checkParams(info *gofakeit.Info, params string) error {
	if len(info.Params) == 0 {
		return fmt.Errorf("takes no parameters")
	}
	if len(info.Params) == 1 && info.Params[0].Type == "string" {
		return nil
	}
	vals := splitParams(params)
	if len(vals) > len(info.Params) {
		return fmt.Errorf("takes at most %d parameters, got %d", len(info.Params), len(vals))
	}

	nums := make(map[string]float64, len(vals))
	for i, p := range info.Params {
		if i >= len(vals) {
			if p.Default == "" && !p.Optional {
				return fmt.Errorf("missing parameter %s", p.Field)
			}
			continue
		}
		v := vals[i]
		var err error
		switch p.Type {
		case "int":
			var n int64
			n, err = strconv.ParseInt(v, 10, 64)
			nums[p.Field] = float64(n)
		case "uint":
			var n uint64
			n, err = strconv.ParseUint(v, 10, 64)
			nums[p.Field] = float64(n)
		case "float":
			nums[p.Field], err = strconv.ParseFloat(v, 64)
		case "bool":
			_, err = strconv.ParseBool(v)
		case "string":
			if len(p.Options) > 0 && !slices.Contains(p.Options, v) {
				err = fmt.Errorf("must be one of %s", strings.Join(p.Options, ", "))
			}
		}
		if err != nil {
			return fmt.Errorf("parameter %s=%q: %w", p.Field, v, err)
		}
	}

	lo, okLo := nums["min"]
	hi, okHi := nums["max"]
	if okLo && okHi && lo > hi {
		return fmt.Errorf("min %v is greater than max %v", lo, hi)
	}
	return nil
}

// splitParams splits on commas outside of [...] lists, as gofakeit does.
func splitParams(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

// Expressions lists the supported "Category.method" names, sorted.
func Expressions() []string {
	out := make([]string, 0, len(aliases))
	for k := range aliases {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseLocale validates a locale string ("en-US", "fr_FR", "ja") and returns
// its canonical BCP 47 tag.
func ParseLocale(locale string) (language.Tag, error) {
	s := strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if s == "" {
		return language.Und, fmt.Errorf("empty locale")
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale: %w", err)
	}
	return tag, nil
}

// Gofakeit is a Capability backed by github.com/brianvoe/gofakeit.
//
// gofakeit ships English data only. The locale is validated and keys the
// generator cache and seed, but values for non-English locales are still
// English; Create logs a warning when that happens.
//
// With a zero seed every generator is randomly seeded. With a non-zero seed
// each locale gets its own deterministic stream derived from (seed, locale),
// so reruns over the same input produce the same output.
type Gofakeit struct {
	seed uint64
	log  *zap.Logger
}

// NewGofakeit returns a gofakeit-backed Capability.
func NewGofakeit(seed uint64) *Gofakeit { return &Gofakeit{seed: seed, log: zap.NewNop()} }

// WithLogger sets the logger used for locale warnings.
func (g *Gofakeit) WithLogger(l *zap.Logger) *Gofakeit {
	if l != nil {
		g.log = l
	}
	return g
}

// Create implements Capability.
func (g *Gofakeit) Create(locale string) (Generator, error) {
	tag, err := ParseLocale(locale)
	if err != nil {
		return nil, &GenerationError{Locale: locale, Err: err}
	}
	if base, _ := tag.Base(); base.String() != "en" {
		g.log.Warn("faker: no locale data for language, values will be English",
			zap.String("locale", locale),
			zap.String("language", base.String()),
		)
	}
	return &gofakeitGenerator{
		locale:    locale,
		f:         gofakeit.New(g.seedFor(tag)),
		templates: make(map[string]template),
	}, nil
}

func (g *Gofakeit) seedFor(tag language.Tag) uint64 {
	if g.seed == 0 {
		return 0
	}
	s := xxh3.HashString(strconv.FormatUint(g.seed, 10) + "/" + tag.String())
	if s == 0 {
		s = 1
	}
	return s
}

type gofakeitGenerator struct {
	locale    string
	f         *gofakeit.Faker
	templates map[string]template
}

// Expression implements Generator. Parsed templates are cached per
// expression; generated values are not.
func (g *gofakeitGenerator) Expression(expr string) (string, error) {
	t, ok := g.templates[expr]
	if !ok {
		var err error
		t, err = parseExpression(expr)
		if err != nil {
			return "", &GenerationError{Locale: g.locale, Expression: expr, Err: err}
		}
		g.templates[expr] = t
	}

	var b strings.Builder
	for _, seg := range t {
		switch seg.kind {
		case segLiteral:
			b.WriteString(seg.text)
		case segNumerify:
			b.WriteString(g.f.Numerify(seg.text))
		case segLetterify:
			b.WriteString(g.f.Lexify(seg.text))
		case segBothify:
			b.WriteString(g.f.Lexify(g.f.Numerify(seg.text)))
		case segRegexify:
			b.WriteString(g.f.Regex(seg.text))
		case segFunc:
			v, err := g.f.Generate("{" + seg.text + "}")
			if err != nil {
				return "", &GenerationError{Locale: g.locale, Expression: expr, Err: err}
			}
			b.WriteString(v)
		}
	}
	return b.String(), nil
}
