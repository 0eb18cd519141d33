package config

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/smartklingel/klingel/hours"
	"github.com/smartklingel/klingel/util"
)

type Duration struct {
	Duration time.Duration
}

func (self *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	self.Duration = d
	return nil
}

func (self Duration) MarshalYAML() (interface{}, error) {
	return self.Duration.String(), nil
}

func (self *Duration) setDefault(d time.Duration) {
	if self.Duration == 0 {
		self.Duration = d
	}
}

type GeneralConf struct {
	Log   string
	Codes string
}

type DoorConf struct {
	Pulse Duration
}

// HardwareConf selects the output backend. For raspi, outputs are BCM pin
// numbers or automation hat aliases (relay1, output2...). For arduino they
// are the relay 'on' codes of the sketch (A, C, E...).
type HardwareConf struct {
	Backend  string
	Device   string
	Baud     int
	Feedback string
	Door     string
	Buzzer   string
}

type TimeoutsConf struct {
	Reason   Duration
	Pin      Duration
	Result   Duration
	Greeting Duration
}

type ThemeConf struct {
	Night string
	Day   string
}

type KioskConf struct {
	Reasons  []string
	Feedback Duration
	Flash    Duration
	Timeouts TimeoutsConf
	Theme    ThemeConf
}

type ConsoleConf struct {
	Listen string
	Lines  int
}

type NtfyConf struct {
	Server   string
	Topic    string
	Title    string
	Priority string
}

type PushbulletConf struct {
	Token string
}

type TelegramConf struct {
	Token   string
	Chat_id int64
}

type SlackConf struct {
	Token   string
	Channel string
}

type MastodonConf struct {
	Server        string
	Client_id     string
	Client_secret string
	Access_token  string
}

type MqttConf struct {
	Broker string
	Prefix string
}

type AuditConf struct {
	Path string
}

type GraphiteConf struct {
	Tcp string
}

type KeypadConf struct {
	Device string
}

// Configuration structure
type Config struct {
	// yaml fields
	General    GeneralConf
	Door       DoorConf
	Hardware   HardwareConf
	Hours      map[string]string
	Kiosk      KioskConf
	Console    ConsoleConf
	Ntfy       NtfyConf
	Pushbullet PushbulletConf
	Telegram   TelegramConf
	Slack      SlackConf
	Mastodon   MastodonConf
	Mqtt       MqttConf
	Audit      AuditConf
	Graphite   GraphiteConf
	Keypad     KeypadConf

	// parsed from Hours
	Schedule hours.Schedule `yaml:"-"`
}

var DefaultReasons = []string{"Parcel / Post", "Visit", "Delivery", "Other"}

func (self *Config) setDefaults() {
	if self.General.Log == "" {
		self.General.Log = DataPath("klingel_log.txt")
	}
	self.General.Log = util.ExpandUser(self.General.Log)
	if self.General.Codes == "" {
		self.General.Codes = DataPath("codes.json")
	}
	self.General.Codes = util.ExpandUser(self.General.Codes)
	self.Door.Pulse.setDefault(3 * time.Second)
	if self.Hardware.Backend == "" {
		self.Hardware.Backend = "dummy"
	}
	if self.Hardware.Baud == 0 {
		self.Hardware.Baud = 9600
	}
	if self.Hardware.Feedback == "" {
		self.Hardware.Feedback = "17"
	}
	if self.Hardware.Door == "" {
		self.Hardware.Door = "27"
	}
	if self.Hardware.Buzzer == "" {
		self.Hardware.Buzzer = "18"
	}
	if len(self.Kiosk.Reasons) == 0 {
		self.Kiosk.Reasons = DefaultReasons
	}
	self.Kiosk.Feedback.setDefault(2 * time.Second)
	self.Kiosk.Flash.setDefault(500 * time.Millisecond)
	self.Kiosk.Timeouts.Reason.setDefault(10 * time.Second)
	self.Kiosk.Timeouts.Pin.setDefault(15 * time.Second)
	self.Kiosk.Timeouts.Result.setDefault(6 * time.Second)
	self.Kiosk.Timeouts.Greeting.setDefault(3 * time.Second)
	if self.Kiosk.Theme.Night == "" {
		self.Kiosk.Theme.Night = "18:00"
	}
	if self.Kiosk.Theme.Day == "" {
		self.Kiosk.Theme.Day = "07:00"
	}
	if self.Console.Listen == "" {
		self.Console.Listen = ":5000"
	}
	if self.Console.Lines == 0 {
		self.Console.Lines = 15
	}
	if self.Ntfy.Server == "" {
		self.Ntfy.Server = "https://ntfy.sh"
	}
	if self.Ntfy.Title == "" {
		self.Ntfy.Title = "Front door"
	}
	if self.Ntfy.Priority == "" {
		self.Ntfy.Priority = "high"
	}
	if self.Mqtt.Prefix == "" {
		self.Mqtt.Prefix = "klingel"
	}
	if self.Audit.Path != "" {
		self.Audit.Path = util.ExpandUser(self.Audit.Path)
	}
}

func (self *Config) validate() error {
	if _, err := util.ParseClock(self.Kiosk.Theme.Night); err != nil {
		return errors.Wrap(err, "kiosk theme night")
	}
	if _, err := util.ParseClock(self.Kiosk.Theme.Day); err != nil {
		return errors.Wrap(err, "kiosk theme day")
	}
	switch self.Hardware.Backend {
	case "raspi", "arduino", "dummy":
	default:
		return errors.Errorf("hardware backend %q not supported", self.Hardware.Backend)
	}
	return nil
}

// Open configuration from disk. A .env file alongside is loaded into the
// environment first, so the yaml can refer to secrets as ${VAR}.
func Open(filename string) (*Config, error) {
	if filename == "" {
		filename = ConfigPath("klingel.yml")
	}
	envfile := filepath.Join(filepath.Dir(filename), ".env")
	if err := godotenv.Load(envfile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading "+envfile)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return OpenReader(file)
}

// Open configuration from a reader.
func OpenReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return OpenRaw(data)
}

// Open configuration from []byte.
func OpenRaw(data []byte) (*Config, error) {
	self := &Config{}
	expanded := os.ExpandEnv(string(data))
	err := yaml.Unmarshal([]byte(expanded), self)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	self.setDefaults()
	if err := self.validate(); err != nil {
		return nil, err
	}
	self.Schedule, err = hours.Parse(self.Hours)
	if err != nil {
		return nil, err
	}
	return self, nil
}

// Default configuration, when no file is present.
func Default() *Config {
	conf, _ := OpenRaw(nil)
	return conf
}

func Must(conf *Config, err error) *Config {
	if err != nil {
		panic(err)
	}
	return conf
}

// helpers

// Resolve a configuration file under .config/klingel
func ConfigPath(p string) string {
	config := os.Getenv("XDG_CONFIG_HOME")
	if config == "" {
		config = path.Join(os.Getenv("HOME"), ".config")
	}
	return path.Join(config, "klingel", p)
}

// Resolve a data file under .local/share/klingel
func DataPath(p string) string {
	data := os.Getenv("XDG_DATA_HOME")
	if data == "" {
		data = path.Join(os.Getenv("HOME"), ".local", "share")
	}
	return path.Join(data, "klingel", p)
}
