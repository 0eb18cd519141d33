package config

import "strings"

var ExampleYaml = `
general:
  log: /tmp/klingel/klingel_log.txt
  codes: /tmp/klingel/codes.json
door:
  pulse: 3s
hardware:
  backend: dummy
  feedback: "17"
  door: "27"
  buzzer: "18"
hours:
  Monday,Tuesday,Wednesday,Thursday,Friday: 08:00-17:00
  Saturday: 09:00-13:00
kiosk:
  reasons:
  - Parcel / Post
  - Visit
  - Delivery
  - Other
  feedback: 2s
  timeouts:
    reason: 10s
    pin: 15s
    result: 6s
    greeting: 3s
  theme:
    night: "18:00"
    day: "07:00"
console:
  listen: :5000
ntfy:
  topic: my-front-door
pushbullet:
  token: ${PUSHBULLET_TOKEN}
telegram:
  token: ${TELEGRAM_TOKEN}
  chat_id: 123456
mqtt:
  broker: tcp://127.0.0.1:1883`

var ExampleConfig = Must(OpenReader(strings.NewReader(ExampleYaml)))
