// Package surface hosts browser windows through Playwright. A Session
// registers extension content scripts as init scripts, opens tabs and hands
// finished .ebx downloads to its owner for installation.
package surface
