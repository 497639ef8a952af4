/*
Capture reads the pcap-family container a quote feed is recorded in.

# Module
  - header: magic detection (byte order, micro/nano precision) and recorder UTC offset
  - framer: per-record header plus a byte window of the stored length
  - source: buffered forward-seeking reader over a capture file

# Source
  - a seekable byte stream positioned at offset 0

# Produce
  - records whose body is decoded by the quote package
*/
package capture
