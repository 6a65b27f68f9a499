package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Data is the built-in default value of every synced collection, used when
// neither the durable cache nor the remote store has anything for it.
type Data struct {
	Rates     []models.Rate
	Metals    []models.MetalRate
	Crypto    []models.CryptoRate
	Headlines []models.Headline
	Config    models.AppConfig
}

// Load returns seed data from the given YAML file, or the built-in defaults
// when the path is empty. A broken seed file is logged and falls back to the
// defaults; startup never fails on seed data.
func Load(path string) Data {
	if path == "" {
		return Defaults()
	}
	data, err := LoadFile(path)
	if err != nil {
		zap.L().Warn("Failed to load seed file, using built-in defaults",
			zap.String("file", path), zap.Error(err))
		return Defaults()
	}
	return data
}

// Defaults returns the built-in seed collections.
func Defaults() Data {
	now := time.Now().UTC()
	return Data{
		Rates: []models.Rate{
			{Id: "usd-local", Name: "US Dollar", Code: "USD", Category: models.RateLocal,
				Buy: decimal.NewFromInt(1000), Sell: decimal.NewFromInt(1010), LastUpdated: now},
			{Id: "eur-local", Name: "Euro", Code: "EUR", Category: models.RateLocal,
				Buy: decimal.NewFromInt(1090), Sell: decimal.NewFromInt(1105), LastUpdated: now},
			{Id: "usd-transfer", Name: "US Dollar", Code: "USD", Category: models.RateTransfer,
				Buy: decimal.NewFromInt(995), Sell: decimal.NewFromInt(1015), LastUpdated: now},
			{Id: "gbp-global", Name: "British Pound", Code: "GBP", Category: models.RateGlobal,
				Buy: decimal.NewFromInt(1270), Sell: decimal.NewFromInt(1285), LastUpdated: now},
		},
		Metals: []models.MetalRate{
			{Id: "gold-gram", Name: "Gold Gram", Code: "XAU-G", Category: models.MetalGold,
				Buy: decimal.NewFromInt(74), Sell: decimal.NewFromInt(76), Unit: "g"},
			{Id: "silver-gram", Name: "Silver Gram", Code: "XAG-G", Category: models.MetalSilver,
				Buy: decimal.NewFromFloat(0.85), Sell: decimal.NewFromFloat(0.92), Unit: "g"},
			{Id: "gold-ounce", Name: "Gold Ounce", Code: "XAU", Category: models.MetalGlobal,
				Buy: decimal.NewFromInt(2310), Sell: decimal.NewFromInt(2335), Unit: "oz"},
		},
		Crypto: []models.CryptoRate{
			{Id: "btc", Symbol: "BTC", Price: decimal.NewFromInt(64250)},
			{Id: "eth", Symbol: "ETH", Price: decimal.NewFromInt(3150)},
			{Id: "usdt", Symbol: "USDT", Price: decimal.NewFromInt(1)},
		},
		Headlines: []models.Headline{
			{Id: "welcome", Text: "Welcome to Golden Exchange", Active: true, Date: now},
		},
		Config: models.AppConfig{
			Id:           models.AppConfigId,
			AppName:      "Golden Exchange",
			PrimaryColor: "#caa035",
			AccentColor:  "#1a1a2e",
			Language:     "en",
			Features: map[string]bool{
				"crypto": true,
				"metals": true,
				"pos":    true,
			},
			Translations: map[string]map[string]string{
				"rates":  {"en": "Rates", "fa": "نرخ ارز"},
				"metals": {"en": "Metals", "fa": "فلزات"},
				"crypto": {"en": "Crypto", "fa": "رمزارز"},
			},
		},
	}
}

// YAML shapes use plain floats; decimals are constructed on conversion.

type seedFile struct {
	Rates []struct {
		Id       string  `yaml:"id"`
		Name     string  `yaml:"name"`
		Code     string  `yaml:"code"`
		Category string  `yaml:"category"`
		Buy      float64 `yaml:"buy"`
		Sell     float64 `yaml:"sell"`
	} `yaml:"rates"`
	Metals []struct {
		Id       string  `yaml:"id"`
		Name     string  `yaml:"name"`
		Code     string  `yaml:"code"`
		Category string  `yaml:"category"`
		Buy      float64 `yaml:"buy"`
		Sell     float64 `yaml:"sell"`
		Unit     string  `yaml:"unit"`
	} `yaml:"metals"`
	Crypto []struct {
		Id     string  `yaml:"id"`
		Symbol string  `yaml:"symbol"`
		Price  float64 `yaml:"price"`
	} `yaml:"crypto"`
	News []struct {
		Id     string `yaml:"id"`
		Text   string `yaml:"text"`
		Active bool   `yaml:"active"`
	} `yaml:"news"`
}

// LoadFile reads seed collections from a YAML file. Collections absent from
// the file keep their built-in defaults.
func LoadFile(path string) (Data, error) {
	var seedPath string
	if filepath.IsAbs(path) {
		seedPath = path
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return Data{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, path)
	}

	raw, err := os.ReadFile(seedPath)
	if err != nil {
		return Data{}, fmt.Errorf("unable to read %s: %w", path, err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return Data{}, fmt.Errorf("unable to parse %s: %w", path, err)
	}

	now := time.Now().UTC()
	out := Defaults()

	if len(sf.Rates) > 0 {
		rates := make([]models.Rate, 0, len(sf.Rates))
		for i, r := range sf.Rates {
			if r.Id == "" {
				return Data{}, fmt.Errorf("rate at index %d missing id", i)
			}
			rates = append(rates, models.Rate{
				Id: r.Id, Name: r.Name, Code: r.Code,
				Category:    models.RateCategory(r.Category),
				Buy:         decimal.NewFromFloat(r.Buy),
				Sell:        decimal.NewFromFloat(r.Sell),
				LastUpdated: now,
			})
		}
		out.Rates = rates
	}
	if len(sf.Metals) > 0 {
		metals := make([]models.MetalRate, 0, len(sf.Metals))
		for i, m := range sf.Metals {
			if m.Id == "" {
				return Data{}, fmt.Errorf("metal at index %d missing id", i)
			}
			metals = append(metals, models.MetalRate{
				Id: m.Id, Name: m.Name, Code: m.Code,
				Category: models.MetalCategory(m.Category),
				Buy:      decimal.NewFromFloat(m.Buy),
				Sell:     decimal.NewFromFloat(m.Sell),
				Unit:     m.Unit,
			})
		}
		out.Metals = metals
	}
	if len(sf.Crypto) > 0 {
		crypto := make([]models.CryptoRate, 0, len(sf.Crypto))
		for i, c := range sf.Crypto {
			if c.Id == "" {
				return Data{}, fmt.Errorf("crypto at index %d missing id", i)
			}
			crypto = append(crypto, models.CryptoRate{
				Id: c.Id, Symbol: c.Symbol, Price: decimal.NewFromFloat(c.Price),
			})
		}
		out.Crypto = crypto
	}
	if len(sf.News) > 0 {
		news := make([]models.Headline, 0, len(sf.News))
		for _, h := range sf.News {
			news = append(news, models.Headline{Id: h.Id, Text: h.Text, Active: h.Active, Date: now})
		}
		out.Headlines = news
	}

	return out, nil
}
