// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package announce delivers called numbers to the outside world without
holding up the queue.

A Dispatcher owns a bounded queue and a pool of workers. Its Announce
method never blocks: when the queue is full the oldest pending number is
dropped, since only the latest call matters to the people waiting.
Failures are logged and otherwise ignored.

	speaker := announce.MultiSpeaker{
		announce.LogSpeaker{},
		announce.NewRedisSpeaker(rdb, "eliminacode:chiamate"),
	}
	d := announce.NewDispatcher(speaker, 2, 16)
	d.Start()
	defer d.Close()

	seq := queue.New(d)

Speakers:

  - CommandSpeaker runs a TTS program such as espeak-ng with the sentence
    "Numero N allo sportello"
  - RedisSpeaker publishes {"numero":N,"testo":"..."} on a channel
  - LogSpeaker writes a log line
  - MultiSpeaker fans out to several speakers
*/
package announce
