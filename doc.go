// The klingel doorbell controller
//
// Features
//
// - Touchscreen kiosk: visitors ring and pick a reason, owners type a code
//
// - Weekly opening hours, the door opens for visitors while open
//
// - Access codes managed from the web console or the command line
//
// - Event log with push notifications (ntfy, Pushbullet, Telegram, Slack, Mastodon)
//
// - Remote opening from the web console or over mqtt
//
// - USB numeric keypad as an alternative to the screen
//
// - Door opening audit trail in sqlite, usage counters in Graphite
//
// Devices supported
//
// - Raspberry Pi GPIO (pimoroni automation hat aliases)
//
// - Arduino with relay module (http://arduino.cc/)
package klingel
