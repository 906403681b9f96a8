package analysis

import "strconv"

var commonPorts = map[uint16]string{
	53:    "DNS",
	67:    "DHCP",
	69:    "TFTP",
	123:   "NTP",
	161:   "SNMP",
	319:   "PTP",
	514:   "Syslog",
	2368:  "Velodyne",
	4789:  "VXLAN",
	5353:  "mDNS",
	32896: "FPGA-RX",
	32775: "FPGA-TX",
	49406: "FPGA-CTRL",
}

// GetServiceName returns the common name for a UDP port, or the port number as a string.
func GetServiceName(port uint16) string {
	if name, ok := commonPorts[port]; ok {
		return name
	}
	return strconv.Itoa(int(port))
}
